package k8s

import (
	"fmt"

	"github.com/devantler-tech/k3d-action/pkg/fsutil"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// RESTConfig builds a REST config for contextName. An empty kubeconfig falls back
// to the default client-go loading rules (KUBECONFIG, then ~/.kube/config); an
// explicit path is read on its own. An empty contextName keeps the current context.
func RESTConfig(kubeconfig, contextName string) (*rest.Config, error) {
	path, err := fsutil.ExpandHomePath(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("resolve kubeconfig path: %w", err)
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	loadingRules.ExplicitPath = path

	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}

	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).
		ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	return restConfig, nil
}

// NewClientset creates a clientset for contextName, see RESTConfig.
func NewClientset(kubeconfig, contextName string) (kubernetes.Interface, error) {
	restConfig, err := RESTConfig(kubeconfig, contextName)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return clientset, nil
}
