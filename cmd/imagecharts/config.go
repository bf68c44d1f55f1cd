package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/imagecharts"
	"github.com/adamwoolhether/imagecharts/client"
)

const envPrefix = "IMAGECHARTS"

// Setting names, shared by flags, env vars and the config file.
const (
	keyProtocol = "protocol"
	keyHost     = "host"
	keyPort     = "port"
	keyPath     = "path"
	keyTimeout  = "timeout"
	keySecret   = "secret"
	keyRPS      = "rate-limit"
	keyVerbose  = "verbose"
)

// loadConfig layers flags over env vars (after loading envFile) over the
// config file. A missing env file or config file is not an error.
func loadConfig(flags *pflag.FlagSet, configFile, envFile string) (*viper.Viper, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("imagecharts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	return v, nil
}

// newLogger writes text logs to stderr, at debug level when verbose.
func newLogger(v *viper.Viper, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if v.GetBool(keyVerbose) {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newChart creates a chart from the settings in v and applies every chart
// parameter that was set, known keys first in documentation order, then
// --param values in the order given.
func newChart(v *viper.Viper, logger *slog.Logger, params []string) (*imagecharts.Chart, error) {
	opts := []imagecharts.Option{
		imagecharts.WithProtocol(v.GetString(keyProtocol)),
		imagecharts.WithHost(v.GetString(keyHost)),
		imagecharts.WithPort(v.GetInt(keyPort)),
		imagecharts.WithPath(v.GetString(keyPath)),
		imagecharts.WithTimeout(v.GetDuration(keyTimeout)),
		imagecharts.WithSecret(v.GetString(keySecret)),
		imagecharts.WithLogger(logger),
	}
	if rps := v.GetInt(keyRPS); rps > 0 {
		opts = append(opts, imagecharts.WithClientOptions(client.WithThrottle(rps, 1)))
	}

	chart, err := imagecharts.New(opts...)
	if err != nil {
		return nil, err
	}

	for _, k := range imagecharts.Keys() {
		if v.IsSet(string(k.Key)) {
			chart = chart.With(k.Key, v.GetString(string(k.Key)))
		}
	}

	for _, p := range params {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("param %q: expected key=value", p)
		}

		key, known := imagecharts.LookupKey(name)
		if !known {
			key = imagecharts.Key(name)
			logger.Debug("using undeclared chart key", "key", name)
		}
		chart = chart.With(key, value)
	}

	return chart, nil
}
