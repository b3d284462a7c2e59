package domain

// ProvisionConfig is the caller-supplied provisioning payload. It is
// serialized and handed to the agency exchange as-is; the bootstrap
// layer never interprets its keys.
type ProvisionConfig map[string]string

// AgentConfig is the configuration returned by a successful
// provisioning exchange. Same opacity contract as ProvisionConfig:
// the caller owns it once returned.
type AgentConfig map[string]string
