package k8s

import (
	"context"
	"fmt"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NotReadyStatus is reported for a node whose Ready condition is present but not True.
const NotReadyStatus = "NotReady"

// NodeStatusLister reads node readiness from the Kubernetes API.
type NodeStatusLister struct {
	client kubernetes.Interface
}

// NewNodeStatusLister wraps a clientset.
func NewNodeStatusLister(client kubernetes.Interface) *NodeStatusLister {
	return &NodeStatusLister{client: client}
}

// NodeStatuses lists every node with its readiness status.
func (l *NodeStatusLister) NodeStatuses(ctx context.Context) (v1alpha1.NodeReadinessSnapshot, error) {
	nodes, err := l.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	snapshot := make(v1alpha1.NodeReadinessSnapshot, 0, len(nodes.Items))
	for i := range nodes.Items {
		snapshot = append(snapshot, v1alpha1.NodeStatus{
			Node:   nodes.Items[i].Name,
			Status: NodeStatus(&nodes.Items[i]),
		})
	}

	return snapshot, nil
}

// NodeStatus returns "Ready" when condition Ready is True, "NotReady" when it is
// present with any other value, and "" when the node reports no Ready condition.
func NodeStatus(node *corev1.Node) string {
	for _, cond := range node.Status.Conditions {
		if cond.Type != corev1.NodeReady {
			continue
		}

		if cond.Status == corev1.ConditionTrue {
			return v1alpha1.NodeReadyStatus
		}

		return NotReadyStatus
	}

	return ""
}
