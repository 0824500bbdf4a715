package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nazeern/simrc/pkg/models"
)

const timingFile = "batch_timing_results.csv"

// saveBatchTiming appends one batch's performance record to a CSV file for
// later throughput analysis.
func saveBatchTiming(batchID string, totalTime time.Duration, timings []models.ItemTiming, concurrency int) {
	if len(timings) == 0 {
		return
	}

	var writeHeader bool
	if _, err := os.Stat(timingFile); os.IsNotExist(err) {
		writeHeader = true
	}

	file, err := os.OpenFile(timingFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("error opening timing file: %v", err)
		return
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if writeHeader {
		header := []string{
			"Timestamp",
			"BatchID",
			"TotalItems",
			"Concurrency",
			"TotalBatchTime_ms",
			"AvgItemTime_ms",
			"MinItemTime_ms",
			"MaxItemTime_ms",
			"SuccessRate",
			"ItemsPerSecond",
			"EfficiencyScore",
		}
		if err := writer.Write(header); err != nil {
			log.Printf("error writing timing header: %v", err)
			return
		}
	}

	var totalItemTime time.Duration
	var minTime, maxTime time.Duration = time.Hour, 0
	var successful int

	for _, t := range timings {
		totalItemTime += t.ProcessingTime
		if t.ProcessingTime < minTime {
			minTime = t.ProcessingTime
		}
		if t.ProcessingTime > maxTime {
			maxTime = t.ProcessingTime
		}
		if t.Success {
			successful++
		}
	}

	n := len(timings)
	avgItemTime := totalItemTime / time.Duration(n)
	successRate := float64(successful) / float64(n) * 100
	itemsPerSecond := float64(n) / totalTime.Seconds()

	// Efficiency: 1.0 means linear speedup over serial execution at the
	// configured concurrency.
	theoretical := avgItemTime * time.Duration(n)
	efficiency := theoretical.Seconds() / totalTime.Seconds() / float64(concurrency)

	ms := func(d time.Duration) string {
		return fmt.Sprintf("%.2f", float64(d.Nanoseconds())/1e6)
	}

	record := []string{
		time.Now().Format(time.RFC3339),
		batchID,
		fmt.Sprintf("%d", n),
		fmt.Sprintf("%d", concurrency),
		ms(totalTime),
		ms(avgItemTime),
		ms(minTime),
		ms(maxTime),
		fmt.Sprintf("%.1f", successRate),
		fmt.Sprintf("%.2f", itemsPerSecond),
		fmt.Sprintf("%.3f", efficiency),
	}

	if err := writer.Write(record); err != nil {
		log.Printf("error writing timing record: %v", err)
		return
	}

	log.Printf("timing saved: %d items, %d workers, %s ms total, %.1f%% success",
		n, concurrency, ms(totalTime), successRate)
}
