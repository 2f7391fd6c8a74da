package config

// Input keys of the flat string map carried on the event descriptor.
// Everything arrives as a string, including booleans and numeric limits, so
// "0" and "false" are meaningful values distinct from unset.
const (
	InputTriggerPhrase     = "triggerPhrase"
	InputAssigneeTrigger   = "assigneeTrigger"
	InputLabelTrigger      = "labelTrigger"
	InputPrompt            = "prompt"
	InputBotName           = "botName"
	InputBaseBranch        = "baseBranch"
	InputContinuousMode    = "continuousMode"
	InputMaxTasks          = "maxTasks"
	InputTaskSource        = "taskSource"
	InputAutoMerge         = "autoMerge"
	InputCloseIssues       = "closeIssues"
	InputDelayBetweenTasks = "delayBetweenTasks"
)

// Defaults applied when an input is the empty string.
const (
	DefaultBotName           = "duyetbot"
	DefaultTriggerPhrase     = "@duyetbot"
	DefaultBaseBranch        = "main"
	DefaultMaxTasks          = "100"
	DefaultTaskSource        = "github-issues"
	DefaultAutoMerge         = "true"
	DefaultCloseIssues       = "true"
	DefaultDelayBetweenTasks = "5"
	DefaultAgentLabel        = "agent-task"
)

// Inputs is the typed view of the flat string-keyed configuration map.
// Conversion happens exactly once at the boundary; mode contexts hold this
// struct, never raw strings. Numeric-looking fields stay strings because
// prompts render them verbatim and an explicit "0" must survive.
type Inputs struct {
	TriggerPhrase   string
	AssigneeTrigger string
	LabelTrigger    string
	Prompt          string
	BotName         string

	// BaseBranch keeps the raw value; the preparation routine applies the
	// "main" default so branch resolution stays visible in one place.
	BaseBranch string

	// ContinuousMode is true only for the exact lowercase string "true".
	ContinuousMode bool

	MaxTasks          string
	TaskSource        string
	AutoMerge         string
	CloseIssues       string
	DelayBetweenTasks string
}

// ParseInputs converts the flat string map into typed Inputs. Default
// substitution compares against the empty string only, never a falsy
// coercion: "0", "false" and "TRUE" all count as explicitly set.
func ParseInputs(raw map[string]string) Inputs {
	get := func(key string) string {
		if raw == nil {
			return ""
		}
		return raw[key]
	}

	return Inputs{
		TriggerPhrase:     stringOrDefault(get(InputTriggerPhrase), DefaultTriggerPhrase),
		AssigneeTrigger:   get(InputAssigneeTrigger),
		LabelTrigger:      get(InputLabelTrigger),
		Prompt:            get(InputPrompt),
		BotName:           stringOrDefault(get(InputBotName), DefaultBotName),
		BaseBranch:        get(InputBaseBranch),
		ContinuousMode:    get(InputContinuousMode) == "true",
		MaxTasks:          stringOrDefault(get(InputMaxTasks), DefaultMaxTasks),
		TaskSource:        stringOrDefault(get(InputTaskSource), DefaultTaskSource),
		AutoMerge:         stringOrDefault(get(InputAutoMerge), DefaultAutoMerge),
		CloseIssues:       stringOrDefault(get(InputCloseIssues), DefaultCloseIssues),
		DelayBetweenTasks: stringOrDefault(get(InputDelayBetweenTasks), DefaultDelayBetweenTasks),
	}
}

func stringOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
