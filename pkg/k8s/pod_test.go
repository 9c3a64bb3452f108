package k8s_test

import (
	"testing"

	"github.com/devantler-tech/k3d-action/pkg/k8s"
	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func pod(phase corev1.PodPhase, statuses ...corev1.ContainerStatus) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "registry-test"},
		Status: corev1.PodStatus{
			Phase:             phase,
			ContainerStatuses: statuses,
		},
	}
}

func waiting(reason string) corev1.ContainerStatus {
	return corev1.ContainerStatus{
		Image: "registry.localhost:5000/k3d-action/registry-test:latest",
		State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: reason}},
	}
}

func TestPodStarted(t *testing.T) {
	t.Parallel()

	assert.True(t, k8s.PodStarted(pod(corev1.PodRunning)))
	assert.True(t, k8s.PodStarted(pod(corev1.PodSucceeded)))
	assert.False(t, k8s.PodStarted(pod(corev1.PodPending)))
	assert.False(t, k8s.PodStarted(pod(corev1.PodFailed)))
}

func TestPodStuck(t *testing.T) {
	t.Parallel()

	assert.True(t, k8s.PodStuck(pod(corev1.PodFailed)))
	assert.True(t, k8s.PodStuck(pod(corev1.PodPending, waiting("ImagePullBackOff"))))
	assert.True(t, k8s.PodStuck(pod(corev1.PodPending, waiting("ErrImagePull"))))
	assert.False(t, k8s.PodStuck(pod(corev1.PodPending, waiting("ContainerCreating"))))
	assert.False(t, k8s.PodStuck(pod(corev1.PodRunning)))
}

func TestDescribePod(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"registry-test: ImagePullBackOff for registry.localhost:5000/k3d-action/registry-test:latest",
		k8s.DescribePod(pod(corev1.PodPending, waiting("ImagePullBackOff"))),
	)

	terminated := pod(corev1.PodFailed, corev1.ContainerStatus{
		State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{ExitCode: 2, Reason: "Error"}},
	})
	assert.Equal(t, "registry-test: terminated with exit code 2 (Error)", k8s.DescribePod(terminated))

	evicted := pod(corev1.PodFailed)
	evicted.Status.Reason = "Evicted"
	assert.Equal(t, "registry-test: Failed (Evicted)", k8s.DescribePod(evicted))

	assert.Equal(t, "registry-test: Pending", k8s.DescribePod(pod(corev1.PodPending)))
}
