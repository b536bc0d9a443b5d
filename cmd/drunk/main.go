package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/luno/drunk"
	"github.com/luno/drunk/drunkprom"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	jlog "github.com/luno/jettison/log"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	configFile = flag.String("config", "", "path to a config yaml")
	mode       = flag.String("mode", modeChoice, "one of choice, static, shuffle, sample or evolve")
	seed       = flag.Int64("seed", 0, "seed for the random source, the current time when 0")
	draws      = flag.Int("draws", 10_000, "number of draws for choice and static modes")
	size       = flag.Int("size", -1, "sample size, random when negative")
	debugAddr  = flag.String("debug_addr", "", "address to serve debug metrics on, disabled when empty")
	wait       = flag.Bool("wait", false, "keep serving debug metrics until interrupted")
)

func main() {
	InitLogging()
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		jlog.Error(ctx, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	drawCounter, err := drunkprom.NewDrawCounter(reg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	if *debugAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runDebugServer(ctx, createDebugRouter(reg), *debugAddr)
			if err != nil {
				jlog.Error(ctx, err)
			}
		}()
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	jlog.Info(ctx, "starting", j.MKV{"mode": *mode, "seed": s})
	src := drunk.NewSource(s)

	if *mode == modeEvolve {
		m, err := drunkprom.NewMetrics(reg, "weasel")
		if err != nil {
			return err
		}
		best, err := runEvolve(ctx, src, cfg.Evolve, m)
		if err != nil {
			return err
		}
		jlog.Info(ctx, "evolved", j.MKV{"phrase": best, "target": cfg.Evolve.Target})
	} else {
		smp := sampling{src: src, items: cfg.Items, draws: drawCounter}
		if err := smp.run(ctx, *mode, *draws, *size); err != nil {
			return err
		}
	}

	if *wait && *debugAddr != "" {
		<-ctx.Done()
	}
	return nil
}
