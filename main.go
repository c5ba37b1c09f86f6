package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// cliOptions carries the parsed command-line surface
type cliOptions struct {
	configPath  string
	sslNoVerify bool
	verbose     bool
	serve       bool
	listenAddr  string
}

func main() {
	var opts cliOptions
	pflag.StringVarP(&opts.configPath, "config", "c", DefaultConfigPath,
		"Configuration file path")
	pflag.BoolVarP(&opts.sslNoVerify, "ssl-no-verify", "k", false,
		"Disable SSL certificate verification (not recommended)")
	pflag.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable debug logging")
	pflag.BoolVar(&opts.serve, "serve", false,
		"Run as a wake relay HTTP server instead of waking one device")
	pflag.StringVar(&opts.listenAddr, "listen", DefaultListenAddr,
		"Relay server listen address (serve mode)")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [device] [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Send Wake-on-LAN requests through a FRITZ!Box router.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	opts.listenAddr = resolveListenAddr(pflag.CommandLine.Changed("listen"), opts.listenAddr)
	os.Exit(run(opts, pflag.Args()))
}

// resolveListenAddr picks the relay listen address. An explicit --listen flag
// wins; LISTEN_ADDR only applies when the flag was left at its default.
func resolveListenAddr(flagSet bool, flagValue string) string {
	if flagSet {
		return flagValue
	}
	return getEnv(EnvListenAddr, flagValue)
}

// run is the process entry point behind flag parsing; it returns the exit
// code instead of calling os.Exit so it stays testable.
func run(opts cliOptions, args []string) int {
	if opts.verbose || opts.serve {
		if err := initLoggerWrapper(opts.verbose); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			return ExitFailure
		}
		defer func() { _ = logger.Sync() }()
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Configuration Error: %v\n", err)
		return ExitFailure
	}
	cfg.VerifyTLS = !opts.sslNoVerify

	if opts.serve {
		// No terminal to prompt on once the server is up
		if cfg.Password == "" {
			fmt.Fprintln(os.Stderr, "✗ Configuration Error: serve mode requires a password in the config file")
			return ExitFailure
		}
		if err := runServer(opts.listenAddr, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "✗ Server Error: %v\n", err)
			return ExitFailure
		}
		return ExitOK
	}

	deviceName := DefaultDeviceName
	if len(args) > 0 {
		deviceName = args[0]
	}
	mac, err := cfg.deviceMAC(deviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Configuration Error: %v\n", err)
		return ExitFailure
	}

	// Run the wake flow in a goroutine so an interrupt aborts cleanly with
	// exit code 130 and no stack trace, even while the password prompt or a
	// network call is blocking.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan int, 1)
	go func() { done <- wakeRun(cfg, deviceName, mac) }()

	select {
	case code := <-done:
		return code
	case <-sigCh:
		fmt.Fprintln(os.Stderr, "\n✗ Operation cancelled by user")
		return ExitInterrupt
	}
}

// wakeRun executes the sequential wake flow against the router and reports
// progress the way a user at a terminal expects.
func wakeRun(cfg *Config, name, mac string) int {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultRequestTimeout)
	defer cancel()

	fmt.Printf("Connecting to FRITZ!Box at %s...\n", cfg.Host)
	session := newFritzSession(cfg.routerURL(), cfg)
	sid, err := session.authenticate(ctx)
	if err != nil {
		return reportError(err)
	}

	fmt.Printf("Looking up device %s (%s)...\n", name, mac)
	uid, err := session.resolveDeviceUID(ctx, sid, mac)
	if err != nil {
		return reportError(err)
	}

	fmt.Println("Sending wake-up request...")
	if err := session.sendWake(ctx, sid, uid); err != nil {
		return reportError(err)
	}

	fmt.Printf("✓ Wake-up request sent successfully to %s (%s)\n", name, mac)
	return ExitOK
}

// reportError prints one human-readable message per failure category and
// returns the error exit code. No failure is retried.
func reportError(err error) int {
	category := "Unexpected Error"
	switch {
	case errors.Is(err, ErrAuthFailed):
		category = "Authentication Error"
	case errors.Is(err, ErrConnection):
		category = "Connection Error"
	case errors.Is(err, ErrDeviceNotFound):
		category = "Device Error"
	case errors.Is(err, ErrWakeFailed):
		category = "Operation Error"
	case errors.Is(err, ErrProtocol):
		category = "Protocol Error"
	}
	fmt.Fprintf(os.Stderr, "✗ %s: %v\n", category, err)
	return ExitFailure
}
