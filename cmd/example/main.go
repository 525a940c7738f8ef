package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/corvidware/corvid"
	"github.com/corvidware/corvid/structs"
)

func main() {
	if err := corvid.LoadDotEnv(".env"); err != nil {
		println(err.Error())
		os.Exit(1)
	}

	cfg, err := corvid.LoadConfig("config.yaml")
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}

	session := corvid.New(corvid.Options{
		Credential: corvid.NewBotCredential(cfg.Token),
		Config:     cfg,
		Logging:    corvid.LoggingOptions{Pretty: true},
	})

	session.On("MESSAGE_CREATE", func(v interface{}) {
		msg, ok := v.(structs.Message)
		if !ok {
			return
		}

		println("message in channel", msg.ChannelID.String(), ":", msg.Content)
	})

	session.On("GUILD_CREATE", func(v interface{}) {
		if g, ok := v.(structs.Guild); ok {
			println("joined/loaded guild", g.Name)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enabled {
		go func() {
			if err := corvid.ServeMetrics(cfg.Metrics.Host); err != nil {
				println("metrics server stopped:", err.Error())
			}
		}()
	}

	if err := session.Connect(ctx); err != nil {
		println(err.Error())
		os.Exit(1)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	session.Disconnect()
}
