package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ghalamif/ViewPulse"
)

func main() {
	flow, err := viewpulse.Conf("../../viewpulse.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := flow.Compute(ctx)
	if err != nil {
		log.Fatalf("compute pass: %v", err)
	}
	log.Printf("wrote %d rows to %s", len(res.Report), flow.Config().Report.Path)
}
