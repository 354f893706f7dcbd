package constants

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName        = "Nova Tracer"
	BinaryName     = "nova-tracer"
	ProjectTagline = "Prompt-injection tracing for Claude Code"

	// Module and repository
	ModulePath    = "github.com/nova-tracer/nova-tracer"
	RepositoryURL = "https://github.com/nova-tracer/nova-tracer"

	// Claude Code settings
	ClaudeDir        = ".claude"
	SettingsFileName = "settings.json"

	// Default install root, relative to the home directory
	DefaultInstallDir = ".nova-tracer"

	// Installer configuration and state
	ConfigDirName  = "nova-tracer"
	DefaultLogFile = "installer.log"

	// Backup naming: <settings>.backup.<timestamp>
	BackupInfix     = ".backup."
	BackupTimestamp = "20060102_150405"
	LockSuffix      = ".lock"

	// Environment overrides
	EnvInstallRoot = "NOVA_TRACER_ROOT"
	EnvSettings    = "NOVA_TRACER_SETTINGS"
	EnvSkipPrereq  = "NOVA_TRACER_SKIP_PREREQ"
	EnvConfig      = "NOVA_TRACER_CONFIG"
)
