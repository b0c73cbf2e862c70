package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
)

// Reads the RFC 9204 Appendix A rows from a semicolon-separated file
// (index;name;value per line) and prints the slice-literal rows for
// internal/qpack/statictable.go.
func main() {
	var path = flag.String("content", "", "The appendix rows to convert")
	flag.Parse()

	if *path == "" {
		panic("The file path is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		splitLine := strings.SplitN(line, ";", 3)
		if len(splitLine) != 3 {
			log.Fatalf("expected index;name;value, got %q", line)
		}
		for i, element := range splitLine {
			splitLine[i] = strings.TrimSpace(element)
		}

		fmt.Printf("{%q, %q}, // %v\n", splitLine[1], splitLine[2], splitLine[0])
	}

	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}
