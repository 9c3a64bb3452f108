package registrytest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/client/oci"
	"github.com/devantler-tech/k3d-action/pkg/k8s"
	"github.com/devantler-tech/k3d-action/pkg/utils/notify"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
)

const (
	// Repository is the repository the test image is pushed to.
	Repository = "k3d-action/registry-test"
	// PodName is the name of the pod pulling the test image.
	PodName = "k3d-action-registry-test"
	// PodNamespace is the namespace of the test pod.
	PodNamespace = metav1.NamespaceDefault

	// DefaultRegistryHost is the host the registry is published on.
	DefaultRegistryHost = "localhost"
	// DefaultPodTimeout bounds the wait for the test pod.
	DefaultPodTimeout = 2 * time.Minute
	// DefaultPodPollInterval is the delay between two pod status reads.
	DefaultPodPollInterval = 2 * time.Second
)

var (
	// ErrPodStuck is returned when the test pod cannot pull or start its image.
	ErrPodStuck = errors.New("registry test pod cannot start")
	// ErrSourceImageRequired is returned for an empty source image.
	ErrSourceImageRequired = errors.New("TEST_IMAGE is required")
)

// RegistryWaiter blocks until the registry at baseURL answers.
type RegistryWaiter func(ctx context.Context, baseURL string) error

// ClientsetFactory returns a Kubernetes client for a kube context of kubeconfig.
// An empty kubeconfig selects the default loading rules.
type ClientsetFactory func(kubeconfig, contextName string) (kubernetes.Interface, error)

// Options selects what Run checks.
type Options struct {
	// Port is the host port of the local registry.
	Port int
	// SourceImage is copied into the registry.
	SourceImage string
	// ClusterName enables the in-cluster pull check when set.
	ClusterName string
	// RegistryHost overrides DefaultRegistryHost.
	RegistryHost string
	// Kubeconfig is the file the cluster context is read from.
	Kubeconfig string
}

// Report summarises a successful run.
type Report struct {
	// Reference is the pushed image on the host side.
	Reference string
	Digest    string
	// ClusterImage is the image the test pod ran. Empty when no cluster was checked.
	ClusterImage string
}

// Tester runs the registry smoke test.
type Tester struct {
	client       oci.Client
	waitRegistry RegistryWaiter
	clientsets   ClientsetFactory
	writer       io.Writer
	podTimeout   time.Duration
	podInterval  time.Duration
}

// TesterOption configures a Tester.
type TesterOption func(*Tester)

// WithRegistryWaiter replaces the registry reachability wait.
func WithRegistryWaiter(waiter RegistryWaiter) TesterOption {
	return func(t *Tester) {
		t.waitRegistry = waiter
	}
}

// WithClientsetFactory replaces how Kubernetes clients are built.
func WithClientsetFactory(factory ClientsetFactory) TesterOption {
	return func(t *Tester) {
		t.clientsets = factory
	}
}

// WithPodWait sets how long and how often the test pod is observed.
func WithPodWait(timeout, interval time.Duration) TesterOption {
	return func(t *Tester) {
		t.podTimeout = timeout
		t.podInterval = interval
	}
}

// NewTester returns a tester pushing through client. Messages go to writer, or stdout when nil.
func NewTester(client oci.Client, writer io.Writer, opts ...TesterOption) *Tester {
	if writer == nil {
		writer = os.Stdout
	}

	tester := &Tester{
		client:       client,
		waitRegistry: waitForRegistry,
		clientsets:   k8s.NewClientset,
		writer:       writer,
		podTimeout:   DefaultPodTimeout,
		podInterval:  DefaultPodPollInterval,
	}

	for _, opt := range opts {
		opt(tester)
	}

	return tester
}

// Run waits for the registry, pushes SourceImage into it, verifies the digest and,
// when ClusterName is set, runs a pod pulling the image through the cluster mirror.
func (t *Tester) Run(ctx context.Context, opts Options) (Report, error) {
	var report Report

	if strings.TrimSpace(opts.SourceImage) == "" {
		return report, v1alpha1.NewConfigurationError(ErrSourceImageRequired)
	}

	host := opts.RegistryHost
	if host == "" {
		host = DefaultRegistryHost
	}

	endpoint := host + ":" + strconv.Itoa(opts.Port)

	notify.Activityf(t.writer, "waiting for registry at %s", endpoint)

	err := t.waitRegistry(ctx, "http://"+endpoint)
	if err != nil {
		return report, v1alpha1.NewExternalCommandError("wait for registry", err)
	}

	target := oci.Target{RegistryEndpoint: endpoint, Repository: Repository, Insecure: true}
	report.Reference = target.String()

	notify.Activityf(t.writer, "copying %s to %s", opts.SourceImage, report.Reference)

	report.Digest, err = t.client.Copy(ctx, opts.SourceImage, target)
	if err != nil {
		return report, v1alpha1.NewExternalCommandError("push test image", err)
	}

	served, err := t.client.Digest(ctx, target)
	if err != nil {
		return report, v1alpha1.NewExternalCommandError("verify test image", err)
	}

	if served != report.Digest {
		return report, fmt.Errorf("%w: pushed %s, served %s", oci.ErrDigestMismatch, report.Digest, served)
	}

	notify.Successf(t.writer, "pushed %s@%s", report.Reference, report.Digest)

	if strings.TrimSpace(opts.ClusterName) == "" {
		return report, nil
	}

	report.ClusterImage = ClusterImage(opts.Port)

	err = t.runPod(ctx, opts.Kubeconfig, v1alpha1.ExpectedContextName(opts.ClusterName), report.ClusterImage)
	if err != nil {
		return report, err
	}

	notify.Successf(t.writer, "cluster %s pulled %s", opts.ClusterName, report.ClusterImage)

	return report, nil
}

// ClusterImage is the test image as the cluster nodes reference it.
func ClusterImage(port int) string {
	return oci.Target{
		RegistryEndpoint: v1alpha1.RegistryHostname + ":" + strconv.Itoa(port),
		Repository:       Repository,
	}.String()
}

func (t *Tester) runPod(ctx context.Context, kubeconfig, contextName, image string) error {
	clientset, err := t.clientsets(kubeconfig, contextName)
	if err != nil {
		return v1alpha1.NewExternalCommandError("connect to "+contextName, err)
	}

	pods := clientset.CoreV1().Pods(PodNamespace)

	err = deletePod(ctx, clientset)
	if err != nil {
		return err
	}

	err = t.waitPodGone(ctx, clientset)
	if err != nil {
		return err
	}

	notify.Activityf(t.writer, "running pod %s/%s with %s", PodNamespace, PodName, image)

	_, err = pods.Create(ctx, newTestPod(image), metav1.CreateOptions{})
	if err != nil {
		return v1alpha1.NewExternalCommandError("create pod "+PodName, err)
	}

	defer func() {
		deleteErr := deletePod(context.WithoutCancel(ctx), clientset)
		if deleteErr != nil {
			notify.Warningf(t.writer, "%v", deleteErr)
		}
	}()

	var last *corev1.Pod

	err = wait.PollUntilContextTimeout(ctx, t.podInterval, t.podTimeout, true,
		func(ctx context.Context) (bool, error) {
			pod, getErr := pods.Get(ctx, PodName, metav1.GetOptions{})
			if getErr != nil {
				return false, fmt.Errorf("get pod %s: %w", PodName, getErr)
			}

			last = pod

			if k8s.PodStuck(pod) {
				return false, fmt.Errorf("%w: %s", ErrPodStuck, k8s.DescribePod(pod))
			}

			return k8s.PodStarted(pod), nil
		})
	if err != nil {
		if last != nil && !errors.Is(err, ErrPodStuck) {
			err = fmt.Errorf("%w (last status %s)", err, k8s.DescribePod(last))
		}

		return v1alpha1.NewExternalCommandError("wait for pod "+PodName, err)
	}

	return nil
}

func newTestPod(image string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      PodName,
			Namespace: PodNamespace,
			Labels:    map[string]string{"app.kubernetes.io/managed-by": "k3d-action"},
		},
		Spec: corev1.PodSpec{
			RestartPolicy: corev1.RestartPolicyNever,
			Containers: []corev1.Container{{
				Name:            "registry-test",
				Image:           image,
				ImagePullPolicy: corev1.PullAlways,
				Command:         []string{"true"},
			}},
		},
	}
}

func deletePod(ctx context.Context, clientset kubernetes.Interface) error {
	err := clientset.CoreV1().Pods(PodNamespace).Delete(ctx, PodName, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return v1alpha1.NewExternalCommandError("delete pod "+PodName, err)
	}

	return nil
}

// waitPodGone blocks until a test pod left by an earlier run has terminated,
// so the new pod can be created under the same name.
func (t *Tester) waitPodGone(ctx context.Context, clientset kubernetes.Interface) error {
	pods := clientset.CoreV1().Pods(PodNamespace)

	err := wait.PollUntilContextTimeout(ctx, t.podInterval, t.podTimeout, true,
		func(ctx context.Context) (bool, error) {
			_, getErr := pods.Get(ctx, PodName, metav1.GetOptions{})
			if apierrors.IsNotFound(getErr) {
				return true, nil
			}

			if getErr != nil {
				return false, fmt.Errorf("get pod %s: %w", PodName, getErr)
			}

			return false, nil
		})
	if err != nil {
		return v1alpha1.NewExternalCommandError("wait for pod "+PodName+" to be deleted", err)
	}

	return nil
}

func waitForRegistry(ctx context.Context, baseURL string) error {
	return oci.WaitForRegistry(ctx, baseURL, oci.DefaultReadyTimeout, oci.DefaultReadyPollInterval)
}
