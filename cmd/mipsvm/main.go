package main

import (
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/famastefano/mips32r6sim/internal/hostio"
	"github.com/famastefano/mips32r6sim/internal/machine"
)

func main() {
	// parse flags
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	memoryFlag := flag.Uint64("mem", 1<<20, "RAM allocation budget in bytes (max 4294967295)")
	snapshotFlag := flag.String("snapshot", "", "load simulator state from <name>.{ram,cp0,cp1,cpu} before running")
	flag.Parse()

	printIfVerbose(*verbose, "Starting MIPS32r6 simulator...")

	// validate memory fits in uint32
	if *memoryFlag > uint64(math.MaxUint32) {
		log.Fatalf("memory size %d exceeds max uint32 %d", *memoryFlag, math.MaxUint32)
	}

	allocLimitBytes := uint32(*memoryFlag)

	printIfVerbose(*verbose, "Allocating %d bytes of resident RAM budget...", allocLimitBytes)
	m := machine.New(allocLimitBytes, hostio.NewStdioTerminal(), hostio.NewOSFileHandler())

	if *snapshotFlag != "" {
		printIfVerbose(*verbose, "Restoring snapshot %q...", *snapshotFlag)
		if err := m.Load(*snapshotFlag); err != nil {
			log.Fatalf("loading snapshot %q: %v", *snapshotFlag, err)
		}
	}

	// create a channel to wait for CPU to stop
	done := make(chan struct{})

	printIfVerbose(*verbose, "Running CPU...")
	start := time.Now()

	// run the CPU in a goroutine so we can handle signals
	go func() {
		m.Run()
		close(done)
	}()

	// set up signal handling for Ctrl+C (os.Interrupt) and SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// wait for either the CPU to finish or a signal
	select {
	case <-sigCh:
		printIfVerbose(*verbose, "Signal received, stopping CPU...")
		m.Stop()
		<-done
	case <-done:
		// CPU finished on its own
	}

	elapsed := time.Since(start)

	printIfVerbose(*verbose, "CPU stopped with exit code %d.", m.Inspect().ExitCode())
	printIfVerbose(*verbose, "Total execution time: %s", elapsed)
}

// printIfVerbose prints a formatted message if verbose is true.
func printIfVerbose(verbose bool, format string, v ...interface{}) {
	if verbose {
		log.Printf(format, v...)
	}
}
