package config

import (
	"fmt"
	"strings"
)

// Stage identifies a point in the create workflow where hooks run.
type Stage string

const (
	StageLocalPre           Stage = "local_pre"
	StageLocalPostReady     Stage = "local_post_ready"
	StageRemotePreCheckout  Stage = "remote_pre_checkout"
	StageRemotePostCheckout Stage = "remote_post_checkout"
	StageRemotePostConfig   Stage = "remote_post_config"
)

// Stages lists every stage in workflow order.
var Stages = []Stage{
	StageLocalPre,
	StageLocalPostReady,
	StageRemotePreCheckout,
	StageRemotePostCheckout,
	StageRemotePostConfig,
}

// Remote reports whether hooks of this stage run inside the codespace.
func (s Stage) Remote() bool {
	return strings.HasPrefix(string(s), "remote_")
}

// ParseStage converts a config key into a Stage.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	names := make([]string, len(Stages))
	for i, s := range Stages {
		names[i] = string(s)
	}
	return "", fmt.Errorf("unknown hook stage %q: must be %s", name, formatOptions(names))
}
