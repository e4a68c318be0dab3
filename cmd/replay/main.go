// Command replay feeds a textual event log into internal/book.Book and
// prints the trades it produces, for manual testing and for replaying a
// log captured with internal/events.
//
// Each input line is whitespace-separated:
//
//	ADD      <ts> <id> <BUY|SELL> <LIMIT|MARKET> <price> <qty>
//	CANCEL   <ts> <id>
//	REPLACE  <ts> <id> <price> <qty>
//
// A price or qty of "-" marks a field that is not given: the price of a
// MARKET add, or a REPLACE field left unchanged.
//
// With -record <path>, every line read is also appended to an
// internal/events.Log at path as it is applied, producing a durable binary
// log that -replay-log can later feed back through the book without
// re-parsing text.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olyamironova/exchange-engine/internal/book"
	"github.com/olyamironova/exchange-engine/internal/events"
)

func main() {
	recordPath := flag.String("record", "", "also append each applied event to a binary log at this path")
	replayLogPath := flag.String("replay-log", "", "replay a binary log written by -record instead of reading text from stdin/file")
	flag.Parse()

	bk := book.New()

	if *replayLogPath != "" {
		if err := events.Replay(*replayLogPath, func(e events.Event) error {
			printTrades(applyEvent(bk, e))
			return nil
		}); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		return
	}

	var in *os.File = os.Stdin
	if args := flag.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var log *events.Log
	if *recordPath != "" {
		l, err := events.Open(*recordPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		defer l.Close()
		log = l
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "replay: %v\n", err)
			os.Exit(1)
		}
		printTrades(applyEvent(bk, e))
		if log != nil {
			if err := log.Append(e); err != nil {
				fmt.Fprintf(os.Stderr, "replay: record: %v\n", err)
				os.Exit(1)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
}

// parseLine turns one textual event line into an events.Event, the wire
// schema shared with the binary log format.
func parseLine(line string) (events.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return events.Event{}, fmt.Errorf("empty line")
	}

	switch strings.ToUpper(fields[0]) {
	case "ADD":
		if len(fields) != 7 {
			return events.Event{}, fmt.Errorf("ADD wants 6 fields, got %d: %q", len(fields)-1, line)
		}
		ts, err := parseU64(fields[1])
		if err != nil {
			return events.Event{}, err
		}
		id, err := parseU64(fields[2])
		if err != nil {
			return events.Event{}, err
		}
		side, err := parseSide(fields[3])
		if err != nil {
			return events.Event{}, err
		}
		qty, err := strconv.ParseInt(fields[6], 10, 64)
		if err != nil {
			return events.Event{}, fmt.Errorf("bad quantity %q: %w", fields[6], err)
		}

		e := events.Event{Ts: ts, Type: events.Add, OrderID: id, Side: side, Qty: &qty}
		switch strings.ToUpper(fields[4]) {
		case "LIMIT":
			price, err := strconv.ParseInt(fields[5], 10, 64)
			if err != nil {
				return events.Event{}, fmt.Errorf("bad price %q: %w", fields[5], err)
			}
			e.OrderType = events.Limit
			e.Price = &price
		case "MARKET":
			e.OrderType = events.Market
		default:
			return events.Event{}, fmt.Errorf("unknown order type %q", fields[4])
		}
		return e, nil

	case "CANCEL":
		if len(fields) != 3 {
			return events.Event{}, fmt.Errorf("CANCEL wants 2 fields, got %d: %q", len(fields)-1, line)
		}
		ts, err := parseU64(fields[1])
		if err != nil {
			return events.Event{}, err
		}
		id, err := parseU64(fields[2])
		if err != nil {
			return events.Event{}, err
		}
		return events.Event{Ts: ts, Type: events.Cancel, OrderID: id}, nil

	case "REPLACE":
		if len(fields) != 5 {
			return events.Event{}, fmt.Errorf("REPLACE wants 4 fields, got %d: %q", len(fields)-1, line)
		}
		ts, err := parseU64(fields[1])
		if err != nil {
			return events.Event{}, err
		}
		id, err := parseU64(fields[2])
		if err != nil {
			return events.Event{}, err
		}
		e := events.Event{Ts: ts, Type: events.Replace, OrderID: id}
		if fields[3] != "-" {
			p, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return events.Event{}, fmt.Errorf("bad price %q: %w", fields[3], err)
			}
			e.Price = &p
		}
		if fields[4] != "-" {
			q, err := strconv.ParseInt(fields[4], 10, 64)
			if err != nil {
				return events.Event{}, fmt.Errorf("bad quantity %q: %w", fields[4], err)
			}
			e.Qty = &q
		}
		return e, nil

	default:
		return events.Event{}, fmt.Errorf("unknown event type %q", fields[0])
	}
}

// applyEvent drives the book from one decoded event, returning any trades
// it produced. It is the single code path shared by text-line replay and
// binary-log replay, so the two input formats can never diverge in meaning.
func applyEvent(bk *book.Book, e events.Event) []book.Trade {
	side := book.Buy
	if e.Side == events.Sell {
		side = book.Sell
	}
	ts := book.TimeNs(e.Ts)

	switch e.Type {
	case events.Add:
		qty := int64(0)
		if e.Qty != nil {
			qty = *e.Qty
		}
		if e.OrderType == events.Market {
			return bk.AddMarket(book.OrderID(e.OrderID), side, qty, ts)
		}
		price := int64(0)
		if e.Price != nil {
			price = *e.Price
		}
		return bk.AddLimit(book.OrderID(e.OrderID), side, price, qty, ts)

	case events.Cancel:
		ok := bk.Cancel(book.OrderID(e.OrderID))
		fmt.Printf("CANCEL %d -> %v\n", e.OrderID, ok)
		return nil

	case events.Replace:
		ok := bk.Replace(book.OrderID(e.OrderID), e.Price, e.Qty, ts)
		fmt.Printf("REPLACE %d -> %v\n", e.OrderID, ok)
		return nil
	}
	return nil
}

func printTrades(trades []book.Trade) {
	for _, t := range trades {
		fmt.Printf("TRADE taker=%d maker=%d side=%s price=%d qty=%d ts=%d\n",
			t.TakerID, t.MakerID, t.TakerSide, t.Price, t.Qty, t.Ts)
	}
}

func parseU64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id/ts %q: %w", s, err)
	}
	return v, nil
}

func parseSide(s string) (events.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return events.Buy, nil
	case "SELL":
		return events.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}
