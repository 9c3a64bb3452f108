package k8s_test

import (
	"context"
	"errors"
	"testing"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/k8s"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

var errAPIUnavailable = errors.New("apiserver unavailable")

func node(name string, conditions ...corev1.NodeCondition) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status:     corev1.NodeStatus{Conditions: conditions},
	}
}

func readyCondition(status corev1.ConditionStatus) corev1.NodeCondition {
	return corev1.NodeCondition{Type: corev1.NodeReady, Status: status}
}

func TestNodeStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node *corev1.Node
		want string
	}{
		{name: "ready", node: node("a", readyCondition(corev1.ConditionTrue)), want: "Ready"},
		{name: "not ready", node: node("a", readyCondition(corev1.ConditionFalse)), want: k8s.NotReadyStatus},
		{name: "unknown", node: node("a", readyCondition(corev1.ConditionUnknown)), want: k8s.NotReadyStatus},
		{
			name: "only other conditions",
			node: node("a", corev1.NodeCondition{Type: corev1.NodeMemoryPressure, Status: corev1.ConditionFalse}),
			want: "",
		},
		{name: "no conditions", node: node("a"), want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, k8s.NodeStatus(testCase.node))
		})
	}
}

func TestNodeStatusLister_NodeStatuses(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(
		node("k3d-ci-agent-0", readyCondition(corev1.ConditionFalse)),
		node("k3d-ci-server-0", readyCondition(corev1.ConditionTrue)),
		node("k3d-ci-agent-1"),
	)

	snapshot, err := k8s.NewNodeStatusLister(clientset).NodeStatuses(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, v1alpha1.NodeReadinessSnapshot{
		{Node: "k3d-ci-agent-0", Status: k8s.NotReadyStatus},
		{Node: "k3d-ci-server-0", Status: "Ready"},
		{Node: "k3d-ci-agent-1", Status: ""},
	}, snapshot)
	assert.False(t, snapshot.AllReady())
}

func TestNodeStatusLister_ListError(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()
	clientset.PrependReactor("list", "nodes", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errAPIUnavailable
	})

	_, err := k8s.NewNodeStatusLister(clientset).NodeStatuses(context.Background())

	require.ErrorIs(t, err, errAPIUnavailable)
}
