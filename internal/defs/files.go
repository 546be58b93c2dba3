package defs

// Files written or edited inside a generated Django project.
const (
	// SettingsPy is the project settings module generated by startproject.
	SettingsPy = "settings.py"

	// URLsPy is the URL configuration module (project-level and per app).
	URLsPy = "urls.py"

	// ViewsPy is the per-app views module generated by startapp.
	ViewsPy = "views.py"

	// ManagePy is the management entry point generated by startproject.
	ManagePy = "manage.py"

	// RequirementsTxt receives the frozen dependency list.
	RequirementsTxt = "requirements.txt"

	// GitIgnore is written at the project root before the initial commit.
	GitIgnore = ".gitignore"

	// ReadmeMD is the project README.
	ReadmeMD = "README.md"

	// RecordDir holds scaffolder metadata inside a generated project.
	RecordDir = ".djscaffold"

	// ProjectRecordYAML records how the project was scaffolded, under RecordDir.
	ProjectRecordYAML = "project.yaml"

	// GitDir is the repository metadata directory.
	GitDir = ".git"
)

// Tool-level locations.
const (
	// ConfigDirName is the directory under the user config dir holding config.yaml.
	ConfigDirName = "djscaffold"

	// ConfigFileName is the user-level config file name.
	ConfigFileName = "config.yaml"

	// LocalConfigFile is looked up in the working directory before the user config.
	LocalConfigFile = ".djscaffold.yaml"

	// EnvPrefix prefixes environment overrides (DJSCAFFOLD_GIT_ENABLED, ...).
	EnvPrefix = "DJSCAFFOLD"
)
