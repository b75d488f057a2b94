package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/acs-rover/joyserial/controller"
	"github.com/acs-rover/joyserial/internal/serial"
)

// Controllers lists the controllers the selected backend can see.
type Controllers struct {
	Input InputConfig `embed:""`
}

func (c *Controllers) Run(logger *slog.Logger) error {
	src, err := c.Input.Open(logger)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	// let the backend settle its initial state
	if _, err := src.Poll(context.Background(), 0); err != nil {
		return err
	}
	return printControllers(os.Stdout, src.Snapshots())
}

func printControllers(w io.Writer, snaps []controller.Snapshot) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "no controllers connected")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tNAME\tAXES\tBUTTONS\tHATS")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", s.Index, s.Name, len(s.Axes), len(s.Buttons), len(s.Hats))
	}
	return tw.Flush()
}

// Ports lists the serial ports on this machine.
type Ports struct{}

func (p *Ports) Run() error {
	ports, err := serial.ListPorts()
	if err != nil {
		return fmt.Errorf("list serial ports: %w", err)
	}
	return printPorts(os.Stdout, ports)
}

func printPorts(w io.Writer, ports []serial.PortInfo) error {
	if len(ports) == 0 {
		_, err := fmt.Fprintln(w, "no serial ports found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PORT\tUSB\tVID:PID\tPRODUCT")
	for _, p := range ports {
		id := "-"
		if p.USB {
			id = p.VID + ":" + p.PID
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", p.Name, p.USB, id, p.Product)
	}
	return tw.Flush()
}
