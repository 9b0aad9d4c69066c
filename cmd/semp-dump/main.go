// Command semp-dump streams a GNSS byte source through pkg/semp and
// prints one line per accepted frame.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.bug.st/serial"

	"github.com/gnssparse/semp/pkg/reader"
	redisclient "github.com/gnssparse/semp/pkg/redis"
	"github.com/gnssparse/semp/pkg/semp"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	var (
		serialDevice  = flag.String("serial", "", "serial device to read from, e.g. /dev/ttyACM0")
		baudRate      = flag.Int("baud", 115200, "serial baud rate")
		filePath      = flag.String("file", "", "read from a file instead of a serial device")
		redisAddr     = flag.String("redis-addr", "", "Redis address (host:port); telemetry publishing disabled when empty")
		redisPassword = flag.String("redis-pass", "", "Redis password")
		redisDB       = flag.Int("redis-db", 0, "Redis database index")
		protocolName  = flag.String("protocol", "", "restrict parsing to one protocol by name (NMEA, Unicore-Hash, RTCM, u-blox, SBF, Unicore-Binary, SPARTN); empty means all")
		bufferBytes   = flag.Int("buffer-bytes", 0, "parse buffer size; 0 picks the minimum the selected parsers require")
		abortNMEA     = flag.Bool("nmea-abort-nonprintable", false, "abort an NMEA sentence on a non-printable body byte")
		abortHash     = flag.Bool("hash-abort-nonprintable", false, "abort a hash sentence on a non-printable body byte")
		verbose       = flag.Bool("verbose", false, "enable verbose per-frame diagnostics")
	)
	flag.Parse()

	if *serialDevice == "" && *filePath == "" {
		log.Fatal("semp-dump: one of -serial or -file is required")
	}

	parsers, err := selectParsers(*protocolName)
	if err != nil {
		log.Fatalf("semp-dump: %v", err)
	}

	var redisClient *redisclient.Client
	if *redisAddr != "" {
		redisClient, err = redisclient.New(*redisAddr, *redisPassword, *redisDB)
		if err != nil {
			log.Fatalf("semp-dump: %v", err)
		}
		defer redisClient.Close()
	}

	printError := func(b byte) { fmt.Fprintf(os.Stderr, "%c", b) }

	bufferLen := semp.GetBufferLength(parsers, *bufferBytes, printError)
	buffer := make([]byte, bufferLen)

	eomCallback := func(ps *semp.ParseState, typeIndex int) {
		name := parsers[typeIndex].Name
		length := ps.Length
		log.Printf("semp-dump: accepted %s frame, %d bytes", name, length)
		if redisClient != nil {
			if err := redisClient.PublishFrame(name, name, length); err != nil {
				log.Printf("semp-dump: redis publish failed: %v", err)
			}
		}
	}

	opts := []semp.Option{semp.WithPrintError(printError)}
	if *abortNMEA {
		opts = append(opts, semp.WithNMEAAbortOnNonprintable())
	}
	if *abortHash {
		opts = append(opts, semp.WithHashAbortOnNonprintable())
	}
	if *verbose {
		opts = append(opts, semp.WithVerboseDebug(), semp.WithDebugOutput(func(b byte) { fmt.Fprintf(os.Stderr, "%c", b) }))
	}
	if redisClient != nil {
		opts = append(opts, semp.WithInvalidData(func(data []byte) {
			if err := redisClient.PublishRejection("core", fmt.Sprintf("discarded %d bytes", len(data))); err != nil {
				log.Printf("semp-dump: redis publish failed: %v", err)
			}
		}))
	}

	ps, err := semp.BeginParser("semp-dump", parsers, buffer, eomCallback, opts...)
	if err != nil {
		log.Fatalf("semp-dump: %v", err)
	}

	source, closeSource, err := openSource(*filePath, *serialDevice, *baudRate)
	if err != nil {
		log.Fatalf("semp-dump: %v", err)
	}
	defer closeSource()

	r := reader.New(source, ps)
	r.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Printf("semp-dump: shutting down")
	r.Stop()
	semp.StopParser(&ps)
}

func selectParsers(name string) ([]*semp.ParserDescription, error) {
	all := semp.DefaultParsers()
	if name == "" {
		return all, nil
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, name) {
			return []*semp.ParserDescription{p}, nil
		}
	}
	return nil, fmt.Errorf("unknown protocol %q", name)
}

func openSource(filePath, serialDevice string, baudRate int) (source io.Reader, closeFn func(), err error) {
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file: %v", err)
		}
		return f, func() { f.Close() }, nil
	}

	mode := &serial.Mode{BaudRate: baudRate}
	port, err := serial.Open(serialDevice, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open serial port: %v", err)
	}
	return port, func() { port.Close() }, nil
}
