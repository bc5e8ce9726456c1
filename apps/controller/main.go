// Command controller fans a split or join pass out to one Kubernetes Job per
// glyph code that has input under the shared glyph root.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"github.com/PhantomInTheWire/glyphsheet/pkg/config"
	"github.com/PhantomInTheWire/glyphsheet/pkg/kube"
	"github.com/PhantomInTheWire/glyphsheet/pkg/layout"
)

// pending returns the codes with input for mode under root.
func pending(mode, root string) []int {
	var codes []int
	for _, code := range layout.Codes() {
		p := layout.SheetPath(root, code)
		if mode == "join" {
			p = layout.DirPath(root, code)
		}
		if _, err := os.Stat(p); err == nil {
			codes = append(codes, code)
		}
	}
	return codes
}

func main() {
	var (
		mode      = flag.String("mode", "split", "split or join")
		root      = flag.String("root", "", "local view of the glyph root, used to find pending codes (default $GLYPH_ROOT or .)")
		claim     = flag.String("claim", "glyph-root", "PersistentVolumeClaim holding the glyph root")
		namespace = flag.String("namespace", "", "namespace to create jobs in (default $KUBE_NAMESPACE or default)")
		upload    = flag.Bool("upload", false, "have each job upload its output")
	)
	flagutil.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		glog.Fatalf("failed to load config: %v", err)
	}
	if *root == "" {
		*root = cfg.Root
	}
	if *namespace == "" {
		*namespace = cfg.Namespace
	}

	if *mode != "split" && *mode != "join" {
		glog.Fatalf("unknown -mode %q; want split or join", *mode)
	}

	clientset, err := kube.Clientset(cfg.Kubeconfig)
	if err != nil {
		glog.Fatalf("%v", err)
	}

	opts := kube.JobOptions{
		Mode:      *mode,
		Namespace: *namespace,
		Image:     cfg.Image,
		ClaimName: *claim,
		Strict:    cfg.Strict,
		Upload:    *upload,
		Suffix:    fmt.Sprintf("%d", time.Now().Unix()),
	}
	codes := pending(*mode, *root)
	glog.Infof("creating %d %s jobs", len(codes), *mode)
	for _, code := range codes {
		job := kube.GlyphJob(opts, code)
		if err := kube.CreateGlyphJob(context.Background(), clientset, job); err != nil {
			glog.Errorf("failed to create job for %s: %v", layout.DirName(code), err)
			continue
		}
		glog.Infof("job %s created for %s", job.Name, layout.DirName(code))
	}
	glog.Flush()
}
