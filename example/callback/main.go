package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ghalamif/ViewPulse/pkg/viewpulse"
)

func main() {
	flow, err := viewpulse.Conf("../../viewpulse.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	callback := func(names []viewpulse.MilestoneName, rows []viewpulse.ReportRow) error {
		for _, row := range rows {
			fmt.Printf("%s %q published=%s\n", row.EntityID, row.Label, row.PublishedDate)
			for _, cell := range row.Milestones {
				if !cell.Result.Present {
					fmt.Printf("  %-4s -\n", cell.Name)
					continue
				}
				fmt.Printf("  %-4s %d views at %s\n", cell.Name, cell.Result.Value, cell.Result.At.Format("2006-01-02 15:04Z07:00"))
			}
		}
		return nil
	}

	if _, err := flow.ToCallback("stdout", callback).Compute(context.Background()); err != nil {
		log.Fatalf("compute pass: %v", err)
	}
}
