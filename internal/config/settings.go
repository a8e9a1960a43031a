package config

import (
	"fmt"
	"strconv"
)

// Settings is the typed view of the resolved environment for the values
// vcr-manage reads itself. Everything else is only passed through to
// child processes.
type Settings struct {
	ProjectName    string
	WalletSeed     string
	DockerHost     string
	LedgerURL      string
	Theme          string
	ThemePath      string
	APIHTTPPort    string
	WebHTTPPort    string
	WebDevHTTPPort string
	WebBaseHref    string
	APIURL         string
	EnablePTVSD    string
}

// SettingsFrom reads Settings out of a resolved Env.
func SettingsFrom(env *Env) Settings {
	return Settings{
		ProjectName:    env.Get(VarProjectName),
		WalletSeed:     env.Get(VarWalletSeed),
		DockerHost:     env.Get(DockerHostVar),
		LedgerURL:      env.Get(VarLedgerURL),
		Theme:          env.Get(VarTheme),
		ThemePath:      env.Get(VarThemePath),
		APIHTTPPort:    env.Get(VarAPIHTTPPort),
		WebHTTPPort:    env.Get(VarWebHTTPPort),
		WebDevHTTPPort: env.Get(VarWebDevHTTPPort),
		WebBaseHref:    env.Get(VarWebBaseHref),
		APIURL:         env.Get(VarAPIURL),
		EnablePTVSD:    env.Get(VarEnablePTVSD),
	}
}

// VolumePrefix is the name prefix shared by every named volume of the
// compose project.
func (s Settings) VolumePrefix() string {
	return s.ProjectName + "_"
}

// WebDevPort parses WEB_DEV_HTTP_PORT.
func (s Settings) WebDevPort() (int, error) {
	port, err := strconv.Atoi(s.WebDevHTTPPort)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid %s %q", VarWebDevHTTPPort, s.WebDevHTTPPort)
	}
	return port, nil
}
