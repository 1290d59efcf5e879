/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML context configuration")
	flag.Parse()

	builder := engine.NewContextBuilder("tessera testbed", 800, 600).
		SetResizable(true).
		SetStencilBuffer(true).
		SetQuitOnEscape(true).
		SetAssetRoot("assets")
	if *configPath != "" {
		b, err := engine.LoadContextBuilder(*configPath)
		if err != nil {
			core.LogError("failed to load configuration: %s", err)
			os.Exit(1)
		}
		builder = b
	}

	ctx, err := builder.Build()
	if err != nil {
		core.LogError("failed to create context: %s", err)
		os.Exit(1)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// run the testbed; a system call stops the loop at the end of the current frame
	if err := ctx.Run(func(ctx *engine.Context) (engine.State, error) {
		state, err := testbed.New(ctx)
		if err != nil {
			return nil, err
		}
		return &interruptible{State: state, sigCh: sigCh}, nil
	}); err != nil {
		os.Exit(1)
	}
}

// interruptible quits the loop once a termination signal arrives.
type interruptible struct {
	engine.State
	sigCh chan os.Signal
}

func (s *interruptible) Update(ctx *engine.Context) error {
	select {
	case sig := <-s.sigCh:
		core.LogInfo("received %s, quitting", sig)
		ctx.Quit()
	default:
	}
	return s.State.Update(ctx)
}
