// Command cli converts glyph sheets to sprite directories and back.
//
//	cli -mode split   # glyph_NN.png  -> glyph_NN/glyph_NNRC.png
//	cli -mode join    # glyph_NN/     -> glyph_NN.png
package main

import (
	"context"
	"flag"
	"image"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/PhantomInTheWire/glyphsheet/pkg/config"
	"github.com/PhantomInTheWire/glyphsheet/pkg/layout"
	"github.com/PhantomInTheWire/glyphsheet/pkg/preview"
	"github.com/PhantomInTheWire/glyphsheet/pkg/split"
	"github.com/PhantomInTheWire/glyphsheet/pkg/stitch"
	"github.com/PhantomInTheWire/glyphsheet/pkg/storage"
)

// selectCodes maps the -code flag to the codes to process: -1 means all.
func selectCodes(code int) ([]int, error) {
	if code == -1 {
		return layout.Codes(), nil
	}
	if !layout.ValidCode(code) {
		return nil, errors.Errorf("glyph code %d out of range [0,%d); use -1 for all", code, layout.CodeCount)
	}
	return []int{code}, nil
}

func main() {
	var (
		mode        = flag.String("mode", "split", "split or join")
		root        = flag.String("root", "", "directory holding sheets and sprite directories (default $GLYPH_ROOT or .)")
		code        = flag.Int("code", -1, "process only this glyph code (0-254); -1 for all")
		strict      = flag.Bool("strict", false, "reject sheets not divisible by 16 and mismatched sprite sizes (default $GLYPH_STRICT)")
		upload      = flag.Bool("upload", false, "upload written sprites/sheets to the MinIO bucket")
		showPreview = flag.Bool("preview", false, "draw each joined sheet on the terminal")
		previewMode = flag.String("preview_mode", "auto", "auto, graphics, truecolor, 256 or none")
	)
	flagutil.Parse()

	envFile := os.Getenv("GLYPH_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		glog.Fatalf("failed to load config: %v", err)
	}
	if *root == "" {
		*root = cfg.Root
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "strict" {
			cfg.Strict = *strict
		}
	})
	*strict = cfg.Strict

	codes, err := selectCodes(*code)
	if err != nil {
		glog.Fatalf("%v", err)
	}

	ctx := context.Background()
	var uploader *storage.Uploader
	if *upload {
		client, err := storage.NewClient(ctx, cfg.Minio)
		if err != nil {
			glog.Fatalf("failed to create storage client: %v", err)
		}
		uploader = storage.NewUploader(client, cfg.Minio.Bucket, cfg.Minio.Prefix)
		if err := uploader.EnsureBucket(ctx); err != nil {
			glog.Fatalf("%v", err)
		}
	}

	switch *mode {
	case "split":
		report, err := split.Codes(split.Options{Root: *root, Strict: *strict}, codes...)
		if err != nil {
			glog.Fatalf("error splitting sheets: %v", err)
		}
		glog.Infof("split %d sheets, rejected %d", len(report.Split), len(report.Rejected))
		if uploader != nil {
			for _, c := range report.Split {
				if _, err := uploader.UploadDir(ctx, layout.DirPath(*root, c)); err != nil {
					glog.Errorf("failed to upload %s: %v", layout.DirName(c), err)
				}
			}
		}

	case "join":
		pm, err := preview.ParseMode(*previewMode)
		if err != nil {
			glog.Fatalf("%v", err)
		}
		visit := func(c int, sheet image.Image) {
			if uploader != nil {
				if err := uploader.UploadFile(ctx, layout.SheetPath(*root, c), uploader.Key(layout.SheetName(c))); err != nil {
					glog.Errorf("%v", err)
				}
			}
			if *showPreview {
				os.Stdout.WriteString(layout.SheetName(c) + "\n")
				if err := preview.Print(os.Stdout, sheet, preview.Options{Mode: pm, MinWidth: 512, MaxWidth: 128, Blanks: true}); err != nil {
					glog.Warningf("preview of %s: %v", layout.SheetName(c), err)
				}
			}
		}
		report, err := stitch.Codes(stitch.Options{Root: *root, Strict: *strict}, visit, codes...)
		if err != nil {
			glog.Fatalf("error joining sprites: %v", err)
		}
		glog.Infof("joined %d sheets", len(report.Joined))

	default:
		glog.Fatalf("unknown -mode %q; want split or join", *mode)
	}
	glog.Flush()
}
