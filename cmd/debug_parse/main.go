package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ziggythehamster/tf2-bot-detector/core/conlog"
)

func main() {
	fmt.Println("Reading console lines from stdin (Ctrl-D to finish)...")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	now := time.Now()
	parsed := 0
	unparsed := 0

	for scanner.Scan() {
		text := scanner.Text()
		line := conlog.Parse(text, now)
		if line == nil {
			unparsed++
			fmt.Printf("  ?  %s\n", text)
			continue
		}
		parsed++
		fmt.Printf("%T %+v\n", line, line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nTotal: %d parsed, %d unparsed\n", parsed, unparsed)
}
