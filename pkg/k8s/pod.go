package k8s

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
)

// Waiting reasons that never resolve on their own.
var terminalWaitingReasons = map[string]struct{}{
	"ErrImagePull":               {},
	"ImagePullBackOff":           {},
	"InvalidImageName":           {},
	"CreateContainerConfigError": {},
}

// PodStarted reports whether the pod pulled its image and started, i.e. it is
// Running or has already Succeeded.
func PodStarted(pod *corev1.Pod) bool {
	return pod.Status.Phase == corev1.PodRunning || pod.Status.Phase == corev1.PodSucceeded
}

// PodStuck reports whether the pod failed or waits for a reason that will not
// clear without intervention.
func PodStuck(pod *corev1.Pod) bool {
	if pod.Status.Phase == corev1.PodFailed {
		return true
	}

	for _, container := range pod.Status.ContainerStatuses {
		if container.State.Waiting == nil {
			continue
		}

		if _, ok := terminalWaitingReasons[container.State.Waiting.Reason]; ok {
			return true
		}
	}

	return false
}

// DescribePod returns a single-line description of the pod's progress.
func DescribePod(pod *corev1.Pod) string {
	for _, container := range pod.Status.ContainerStatuses {
		if container.State.Waiting != nil && container.State.Waiting.Reason != "" {
			return fmt.Sprintf(
				"%s: %s for %s",
				pod.Name, container.State.Waiting.Reason, container.Image,
			)
		}

		if container.State.Terminated != nil && container.State.Terminated.ExitCode != 0 {
			return fmt.Sprintf(
				"%s: terminated with exit code %d (%s)",
				pod.Name, container.State.Terminated.ExitCode, container.State.Terminated.Reason,
			)
		}
	}

	if pod.Status.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", pod.Name, pod.Status.Phase, pod.Status.Reason)
	}

	return fmt.Sprintf("%s: %s", pod.Name, pod.Status.Phase)
}
