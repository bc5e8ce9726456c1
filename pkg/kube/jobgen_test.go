package kube

import (
	"context"
	"strings"
	"testing"

	meta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestJobName(t *testing.T) {
	if got, want := JobName("split", 0x4e, ""), "glyph-split-glyph-4e"; got != want {
		t.Errorf("JobName = %q; want %q", got, want)
	}
	long := JobName("join", 1, strings.Repeat("x", 80))
	if len(long) > 63 {
		t.Errorf("len(%q) = %d; want <= 63", long, len(long))
	}
	if got := JobName("split", 1, "A_B"); got != "glyph-split-glyph-01-a-b" {
		t.Errorf("JobName = %q", got)
	}
}

func TestGlyphJobArgs(t *testing.T) {
	job := GlyphJob(JobOptions{Mode: "join", Namespace: "fonts", Image: "img:1", ClaimName: "glyph-root", Upload: true}, 0xA0)
	c := job.Spec.Template.Spec.Containers[0]
	args := strings.Join(c.Args, " ")
	if !strings.Contains(args, "-mode join") || !strings.Contains(args, "-code 160") || !strings.Contains(args, "-upload") {
		t.Errorf("args = %q", args)
	}
	if strings.Contains(args, "-strict") {
		t.Errorf("args = %q; did not ask for -strict", args)
	}
	if job.Labels["glyph-code"] != "A0" {
		t.Errorf("glyph-code label = %q; want A0", job.Labels["glyph-code"])
	}
	if claim := job.Spec.Template.Spec.Volumes[0].PersistentVolumeClaim.ClaimName; claim != "glyph-root" {
		t.Errorf("claim = %q", claim)
	}
}

func TestCreateGlyphJob(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	job := GlyphJob(JobOptions{Mode: "split", Namespace: "fonts", Image: "img:1"}, 3)
	if err := CreateGlyphJob(context.Background(), clientset, job); err != nil {
		t.Fatal(err)
	}
	got, err := clientset.BatchV1().Jobs("fonts").Get(context.Background(), job.Name, meta.GetOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Spec.Template.Spec.Containers[0].Image != "img:1" {
		t.Errorf("image = %q", got.Spec.Template.Spec.Containers[0].Image)
	}
	if err := CreateGlyphJob(context.Background(), clientset, job); err == nil {
		t.Error("creating the same job twice should fail")
	}
}
