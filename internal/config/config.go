// Package config holds the server settings. Every setting is a flag; each
// flag can also come from an ATBAT_ prefixed environment variable.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DoyleJ11/atbat-challenge/internal/engine"
	"github.com/DoyleJ11/atbat-challenge/internal/media"
)

const EnvPrefix = "ATBAT"

const (
	defaultMusicURI = "https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/take_me_out-pj7VNwzzKBv9oAa4Jude14rTgGYCxy.mp3"
	defaultWinURI   = "https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/cheer2-XkzDwyrtzPspMyTR6Xti69RVp0UUqD.wav"
	defaultLoseURI  = "https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/boo2-H8MlNsaArLp9uBrzLAwQe0CNPyNAbm.wav"
)

type Config struct {
	Bind            string
	Port            int
	Dev             bool
	LogLevel        string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	RevealDelay    time.Duration
	SwapLead       time.Duration
	SwapDuration   time.Duration
	ResultHold     time.Duration
	WalkOffHold    time.Duration
	CommentTick    time.Duration
	CommentSeconds int
	CommentMax     int

	MusicURI string
	WinURI   string
	LoseURI  string
}

// RegisterFlags adds every setting to fs with its default.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	r := engine.DefaultRules()

	fs.StringVarP(&c.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: ATBAT_BIND)")
	fs.IntVarP(&c.Port, "port", "p", 8080, "port to listen on (env: ATBAT_PORT)")
	fs.BoolVar(&c.Dev, "dev", false, "human-readable console logs (env: ATBAT_DEV)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug, info, warn or error (env: ATBAT_LOG_LEVEL)")
	fs.StringSliceVar(&c.CORSOrigins, "cors-origins", []string{"http://localhost:3000"}, "allowed browser origins (env: ATBAT_CORS_ORIGINS)")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "grace period for open requests on exit (env: ATBAT_SHUTDOWN_TIMEOUT)")

	fs.DurationVar(&c.RevealDelay, "reveal-delay", r.RevealDelay, "wait between submit and reveal (env: ATBAT_REVEAL_DELAY)")
	fs.DurationVar(&c.SwapLead, "swap-lead", r.SwapLead, "wait between reveal and the leaderboard swap (env: ATBAT_SWAP_LEAD)")
	fs.DurationVar(&c.SwapDuration, "swap-duration", r.SwapDuration, "leaderboard swap animation length (env: ATBAT_SWAP_DURATION)")
	fs.DurationVar(&c.ResultHold, "result-hold", r.ResultHold, "how long the result stays up (env: ATBAT_RESULT_HOLD)")
	fs.DurationVar(&c.WalkOffHold, "walkoff-hold", r.WalkOffHold, "how long the walk-off panel stays up (env: ATBAT_WALKOFF_HOLD)")
	fs.DurationVar(&c.CommentTick, "comment-tick", r.CommentTick, "comment countdown step (env: ATBAT_COMMENT_TICK)")
	fs.IntVar(&c.CommentSeconds, "comment-seconds", r.CommentSeconds, "comment countdown start (env: ATBAT_COMMENT_SECONDS)")
	fs.IntVar(&c.CommentMax, "comment-max", r.CommentMax, "comment length limit in characters (env: ATBAT_COMMENT_MAX)")

	fs.StringVar(&c.MusicURI, "music-uri", defaultMusicURI, "background music played while waiting (env: ATBAT_MUSIC_URI)")
	fs.StringVar(&c.WinURI, "win-uri", defaultWinURI, "sound played on a win (env: ATBAT_WIN_URI)")
	fs.StringVar(&c.LoseURI, "lose-uri", defaultLoseURI, "sound played on a loss (env: ATBAT_LOSE_URI)")
}

// BindEnv fills every flag the user did not set from the environment.
func BindEnv(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var errs error
	fs.VisitAll(func(f *pflag.Flag) {
		errs = multierr.Append(errs, v.BindPFlag(f.Name, f))
		errs = multierr.Append(errs, v.BindEnv(f.Name))
		if !f.Changed && v.IsSet(f.Name) {
			if err := fs.Set(f.Name, v.GetString(f.Name)); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s_%s: %w", EnvPrefix, envName(f.Name), err))
			}
		}
	})
	return errs
}

func envName(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs error
	if c.Port < 1 || c.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid log level: %q", c.LogLevel))
	}
	if c.ShutdownTimeout <= 0 {
		errs = multierr.Append(errs, errors.New("shutdown-timeout must be positive"))
	}

	for name, d := range map[string]time.Duration{
		"reveal-delay":  c.RevealDelay,
		"swap-lead":     c.SwapLead,
		"swap-duration": c.SwapDuration,
		"result-hold":   c.ResultHold,
		"walkoff-hold":  c.WalkOffHold,
		"comment-tick":  c.CommentTick,
	} {
		if d <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s must be positive: %s", name, d))
		}
	}
	if c.SwapLead+c.SwapDuration > c.ResultHold {
		errs = multierr.Append(errs, fmt.Errorf("swap must finish within result-hold: %s + %s > %s", c.SwapLead, c.SwapDuration, c.ResultHold))
	}
	if c.CommentSeconds < 1 {
		errs = multierr.Append(errs, fmt.Errorf("comment-seconds must be at least 1: %d", c.CommentSeconds))
	}
	if c.CommentMax < 1 {
		errs = multierr.Append(errs, fmt.Errorf("comment-max must be at least 1: %d", c.CommentMax))
	}
	return errs
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

func (c Config) Rules() engine.Rules {
	return engine.Rules{
		RevealDelay:    c.RevealDelay,
		SwapLead:       c.SwapLead,
		SwapDuration:   c.SwapDuration,
		ResultHold:     c.ResultHold,
		WalkOffHold:    c.WalkOffHold,
		CommentTick:    c.CommentTick,
		CommentSeconds: c.CommentSeconds,
		CommentMax:     c.CommentMax,
	}
}

func (c Config) Assets() media.Assets {
	return media.Assets{Music: c.MusicURI, Win: c.WinURI, Lose: c.LoseURI}
}

// NewLogger builds a JSON production logger, or a console logger with --dev.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
