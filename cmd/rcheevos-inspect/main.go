// Command rcheevos-inspect is an interactive, single-keypress frame
// stepper for a compiled achievement: raw-mode stdin (grounded on
// terminal_host.go's term.MakeRaw/syscall.Read loop) drives one DoFrame
// call per keypress, and the current trigger/hit state can be exported to
// the system clipboard for pasting into a bug report.
package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"golang.design/x/clipboard"
	"golang.org/x/term"

	rcheevos "github.com/RetroAchievements/rcheevos-sub001"
)

const watchedAddress = 0x1000

func peekFrom(mem map[uint32]uint32) rcheevos.PeekFunc {
	return func(address uint32, numBytes uint8, userdata any) uint32 {
		return mem[address]
	}
}

func printStatus(frame int, mem map[uint32]uint32, trig *rcheevos.Trigger) {
	fmt.Printf("\rframe %-5d  0x%04X=%-6d  state=%-10v hits=%d\n",
		frame, watchedAddress, mem[watchedAddress], trig.State, trig.Required.Conditions[0].CurrentHits)
}

func exportToClipboard(frame int, mem map[uint32]uint32, trig *rcheevos.Trigger) {
	if clipboard.Init() != nil {
		fmt.Fprintln(os.Stderr, "\nrcheevos-inspect: clipboard unavailable on this platform")
		return
	}
	dump := fmt.Sprintf("frame %d\nmemory: %s\ntrigger:\n%s", frame, spew.Sdump(mem), spew.Sdump(trig))
	clipboard.Write(clipboard.FmtText, []byte(dump))
	fmt.Fprintln(os.Stderr, "\nrcheevos-inspect: copied current state to clipboard")
}

func main() {
	source := flag.String("trigger", "0xH1000=10.5.", "achievement trigger source to step through")
	flag.Parse()

	rt := rcheevos.NewRuntime(nil)
	if err := rt.ActivateAchievement(1, *source); err != nil {
		fmt.Fprintf(os.Stderr, "rcheevos-inspect: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rcheevos-inspect: failed to set raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	mem := map[uint32]uint32{}
	frame := 0
	fmt.Println("n: next frame   i/d: inc/dec watched byte   c: copy state   q: quit")

	buf := make([]byte, 1)
	for {
		n, err := syscall.Read(fd, buf)
		if err != nil || n == 0 {
			continue
		}
		switch buf[0] {
		case 'q':
			return
		case 'n':
			frame++
			var events []rcheevos.RuntimeEvent
			rt.DoFrame(peekFrom(mem), nil, func(ev rcheevos.RuntimeEvent) { events = append(events, ev) })
			printStatus(frame, mem, requiredTrigger(rt))
			for _, ev := range events {
				fmt.Printf("  event: id=%d trigger=%v\n", ev.ID, ev.TriggerEvent)
			}
		case 'i':
			mem[watchedAddress]++
		case 'd':
			if mem[watchedAddress] > 0 {
				mem[watchedAddress]--
			}
		case 'c':
			exportToClipboard(frame, mem, requiredTrigger(rt))
		}
	}
}

// requiredTrigger is a small accessor helper: the inspected achievement is
// always activated under id 1 by this tool.
func requiredTrigger(rt *rcheevos.Runtime) *rcheevos.Trigger {
	return rt.TriggerByID(1)
}
