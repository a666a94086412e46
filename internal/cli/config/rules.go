package config

import (
	"log/slog"

	"github.com/gobeaver/uploadrules"
	"github.com/gobeaver/uploadrules/ruleset"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Rules selects where upload rules come from: a rule-set file when --rules
// is given, environment variables otherwise.
type Rules struct {
	path      string
	envPrefix string
}

// Flags returns CLI flags for rule configuration
func (x *Rules) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "rules",
			Aliases:     []string{"r"},
			Category:    "rules",
			Sources:     cli.EnvVars("UPLOADRULES_RULES"),
			Usage:       "Rule-set YAML file (rules are read from the environment when omitted)",
			Destination: &x.path,
		},
		&cli.StringFlag{
			Name:        "env-prefix",
			Category:    "rules",
			Usage:       "Prefix of the UPLOADRULES_* environment variables",
			Value:       "BEAVER_",
			Destination: &x.envPrefix,
		},
	}
}

// Path returns the rule-set file, if any.
func (x *Rules) Path() string { return x.path }

// LogValue returns the rule configuration as a slog.Value for logging
func (x Rules) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.String("env_prefix", x.envPrefix),
	)
}

// Build returns the configured validator.
func (x *Rules) Build() (*uploadrules.Validator, error) {
	if x.path != "" {
		return ruleset.Load(x.path)
	}

	v, err := uploadrules.WithPrefix(x.envPrefix).New()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load rules from environment",
			goerr.V("prefix", x.envPrefix))
	}
	return v, nil
}
