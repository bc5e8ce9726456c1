package kube

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	meta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/retry"

	"github.com/PhantomInTheWire/glyphsheet/pkg/layout"
)

func int32Ptr(i int32) *int32 { return &i }

var invalidName = regexp.MustCompile(`[^a-z0-9-]`)

// JobOptions describes the Jobs created for glyph codes.
type JobOptions struct {
	// Mode is "split" or "join".
	Mode      string
	Namespace string
	Image     string
	// ClaimName is the PersistentVolumeClaim holding the glyph root. It is
	// mounted at /glyphs.
	ClaimName string
	Strict    bool
	Upload    bool
	// Suffix keeps names unique across runs, e.g. a timestamp.
	Suffix string
}

// JobName returns a DNS-1123 label of at most 63 characters for code.
func JobName(mode string, code int, suffix string) string {
	base := fmt.Sprintf("glyph-%s-%s", mode, strings.ToLower(layout.DirName(code)))
	if suffix != "" {
		base += "-" + suffix
	}
	name := invalidName.ReplaceAllString(strings.ToLower(base), "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return strings.Trim(name, "-")
}

// GlyphJob builds a Job that runs the cli for a single glyph code against the
// shared glyph root volume.
func GlyphJob(opts JobOptions, code int) *batchv1.Job {
	jobName := JobName(opts.Mode, code, opts.Suffix)
	args := []string{"-mode", opts.Mode, "-root", "/glyphs", "-code", fmt.Sprintf("%d", code), "-logtostderr"}
	if opts.Strict {
		args = append(args, "-strict")
	}
	if opts.Upload {
		args = append(args, "-upload")
	}

	return &batchv1.Job{
		ObjectMeta: meta.ObjectMeta{
			Name:      jobName,
			Namespace: opts.Namespace,
			Labels: map[string]string{
				"app":        "glyphsheet",
				"glyph-mode": opts.Mode,
				"glyph-code": fmt.Sprintf("%02X", code),
			},
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: int32Ptr(1),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: meta.ObjectMeta{
					Labels: map[string]string{"job-name": jobName},
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyOnFailure,
					Containers: []corev1.Container{{
						Name:  "glyphsheet",
						Image: opts.Image,
						Args:  args,
						EnvFrom: []corev1.EnvFromSource{{
							SecretRef: &corev1.SecretEnvSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: "glyphsheet-minio"},
								Optional:             boolPtr(true),
							},
						}},
						VolumeMounts: []corev1.VolumeMount{{
							Name:      "glyphs",
							MountPath: "/glyphs",
						}},
					}},
					Volumes: []corev1.Volume{{
						Name: "glyphs",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: opts.ClaimName,
							},
						},
					}},
				},
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

// Clientset loads kubeconfig (or the default home file when empty).
func Clientset(kubeconfig string) (kubernetes.Interface, error) {
	if kubeconfig == "" {
		kubeconfig = clientcmd.RecommendedHomeFile
	}
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, errors.Wrap(err, "loading kubeconfig")
	}
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "building clientset")
	}
	return clientset, nil
}

// CreateGlyphJob submits job, retrying on conflicts.
func CreateGlyphJob(ctx context.Context, clientset kubernetes.Interface, job *batchv1.Job) error {
	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		_, err := clientset.BatchV1().Jobs(job.Namespace).Create(ctx, job, meta.CreateOptions{})
		return err
	})
}
