package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ghalamif/ViewPulse"
)

func main() {
	flow, err := viewpulse.Conf("../../viewpulse.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sink, reports, closeReports := viewpulse.NewChannelSink("fanout", 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fanoutWorker("dashboard", reports)
	}()

	if _, err := flow.To(sink).Compute(context.Background()); err != nil {
		log.Fatalf("compute pass: %v", err)
	}
	closeReports()
	wg.Wait()
}

func fanoutWorker(name string, reports <-chan viewpulse.Report) {
	for report := range reports {
		present := 0
		for _, row := range report.Rows {
			for _, cell := range row.Milestones {
				if cell.Result.Present {
					present++
				}
			}
		}
		fmt.Printf("[%s] %d videos, %d of %d milestone cells filled\n",
			name, len(report.Rows), present, len(report.Rows)*len(report.Names))
	}
}
