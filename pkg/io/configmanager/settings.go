package configmanager

import (
	"reflect"
	"strings"
	"time"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
)

type setting struct {
	key          string
	env          string
	defaultValue any
	usage        string
}

var settings = []setting{
	{
		key:          "cluster-name",
		env:          "CLUSTER_NAME",
		defaultValue: "",
		usage:        "name of the k3d cluster",
	},
	{
		key:          "args",
		env:          "ARGS",
		defaultValue: "",
		usage:        "extra arguments passed to k3d cluster create",
	},
	{
		key:          "network",
		env:          "NETWORK",
		defaultValue: v1alpha1.DefaultNetwork,
		usage:        "docker network the cluster joins",
	},
	{
		key:          "subnet-cidr",
		env:          "SUBNET_CIDR",
		defaultValue: v1alpha1.DefaultSubnetCIDR,
		usage:        "subnet used when the network is created",
	},
	{
		key:          "use-default-registry",
		env:          "USE_DEFAULT_REGISTRY",
		defaultValue: false,
		usage:        "start a local registry and wire it into the cluster",
	},
	{
		key:          "registry-port",
		env:          "REGISTRY_PORT",
		defaultValue: v1alpha1.DefaultRegistryPort,
		usage:        "host port of the local registry",
	},
	{
		key:          "readiness-interval",
		env:          "READINESS_INTERVAL",
		defaultValue: v1alpha1.DefaultReadinessInterval,
		usage:        "delay between node readiness polls",
	},
	{
		key:          "readiness-timeout",
		env:          "READINESS_TIMEOUT",
		defaultValue: time.Duration(0),
		usage:        "give up waiting for nodes after this long (0 waits forever)",
	},
	{
		key:          "readiness-max-attempts",
		env:          "READINESS_MAX_ATTEMPTS",
		defaultValue: 0,
		usage:        "give up waiting for nodes after this many polls (0 is unlimited)",
	},
	{
		key:          "test-image",
		env:          "TEST_IMAGE",
		defaultValue: v1alpha1.DefaultTestImage,
		usage:        "image pushed through the local registry by test-registry",
	},
	{
		key:          "kubeconfig",
		env:          "KUBECONFIG_PATH",
		defaultValue: "",
		usage:        "kubeconfig file to reach the cluster (default: KUBECONFIG or ~/.kube/config)",
	},
}

// AddFlags registers one flag per setting plus --config and --env-file.
// Flags already present on the set are left alone.
func AddFlags(flags *pflag.FlagSet) {
	for _, setting := range settings {
		if flags.Lookup(setting.key) != nil {
			continue
		}

		usage := setting.usage
		if setting.env != "" {
			usage += " [" + setting.env + "]"
		}

		switch value := setting.defaultValue.(type) {
		case bool:
			flags.Bool(setting.key, value, usage)
		case int:
			flags.Int(setting.key, value, usage)
		case time.Duration:
			flags.Duration(setting.key, value, usage)
		default:
			flags.String(setting.key, stringDefault(setting.defaultValue), usage)
		}
	}

	if flags.Lookup(ConfigFlag) == nil {
		flags.String(ConfigFlag, "", "path to a YAML config file (default ./"+defaultConfigName+".yaml)")
	}

	if flags.Lookup(EnvFileFlag) == nil {
		flags.String(EnvFileFlag, "", "path to a dotenv file; variables already set win")
	}
}

func stringDefault(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case interface{ String() string }:
		return typed.String()
	default:
		return ""
	}
}

// enableFlagDecodeHook turns textual toggles into booleans. Only a
// case-insensitive "true" enables a toggle; any other text disables it.
func enableFlagDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}

		text, _ := data.(string)

		return strings.EqualFold(strings.TrimSpace(text), "true"), nil
	}
}
