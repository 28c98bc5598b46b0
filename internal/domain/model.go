package domain

// ModelDefinition describes a chat model configuration declared in the
// config file. Each model represents a hosted endpoint with its
// authentication and generation parameters.
type ModelDefinition struct {
	Name        string  `yaml:"name"`
	Provider    string  `yaml:"provider"`
	Endpoint    string  `yaml:"endpoint"`
	AuthEnvVar  string  `yaml:"auth_env_var"`
	OrgEnvVar   string  `yaml:"org_env_var"`
	ModelID     string  `yaml:"model_id"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// ProviderKind distinguishes wire formats for the supported endpoints.
type ProviderKind string

const (
	ProviderKindOpenAI    ProviderKind = "openai"
	ProviderKindAnthropic ProviderKind = "anthropic"
	ProviderKindOllama    ProviderKind = "ollama"
	ProviderKindUnknown   ProviderKind = "unknown"
)

// ChatMessage follows the role/content pair required by chat APIs.
type ChatMessage struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
