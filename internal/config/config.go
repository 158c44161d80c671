package config

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var validate = validator.New()

// fallbackPort is read when SERVER_PORT is unset, as hosting platforms set PORT.
const fallbackPort = "PORT"

// Keys come from split_words field names (GITHUB_WEBHOOK_SECRET). An envconfig
// tag would also make envconfig read the bare tag (TOKEN, HOST) as a fallback.
type Configuration struct {
	Server struct {
		Host string
		Port string `default:"3000" validate:"required,numeric"`
	}
	Github struct {
		Token         string `validate:"required"`
		WebhookSecret string `split_words:"true"`
		EnterpriseURL string `split_words:"true" validate:"omitempty,url"`
	}
	Bot struct {
		BoardFile   string `split_words:"true" default:"README.md" validate:"required"`
		CommitTitle string `split_words:"true" default:"Moved by Chessbot" validate:"required"`
		// rebase merges keep the submitter's commit message and lose the move history
		MergeMethod string `split_words:"true" default:"squash" validate:"oneof=merge squash"`
	}
	Log struct {
		Level  string `default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
		Pretty bool
	}
}

// Addr is the listen address of the webhook server.
func (c *Configuration) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Logger builds the root logger. Pretty output is meant for local runs.
func (c *Configuration) Logger() zerolog.Logger {
	var w io.Writer = os.Stderr
	if c.Log.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func InitConfig() (*Configuration, error) {
	config := &Configuration{}
	if err := envconfig.Process("", config); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if _, ok := os.LookupEnv("SERVER_PORT"); !ok {
		if port := os.Getenv(fallbackPort); port != "" {
			config.Server.Port = port
		}
	}
	if config.Github.WebhookSecret == "" {
		config.Github.WebhookSecret = config.Github.Token
	}
	if err := check(config); err != nil {
		return nil, err
	}
	return config, nil
}

func check(config *Configuration) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	var errs error
	for _, fe := range fieldErrs {
		errs = multierror.Append(errs, fmt.Errorf("%s: failed %q check (value %q)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errs
}
