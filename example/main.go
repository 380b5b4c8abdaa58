package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mgnsk/workq"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := initCLI().Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func initCLI() *cli.App {
	return &cli.App{
		Name:  "workq-example",
		Usage: "Queue work items for a set of recipients and deliver them",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "recipients",
				Value: 3,
				Usage: "number of recipients",
			},
			&cli.UintFlag{
				Name:  "items",
				Value: 4,
				Usage: "number of items queued per recipient",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	logger := zap.NewNop()
	if c.Bool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer l.Sync() //nolint:errcheck
		logger = l
	}

	registry := workq.NewRegistry(workq.WithLogger(logger))
	defer registry.Close()

	recipients := uint32(c.Uint("recipients"))
	items := uint32(c.Uint("items"))

	ids := make([]uint32, 0, recipients)
	for id := uint32(0); id < recipients; id++ {
		ids = append(ids, id)

		q, err := registry.Queue(id)
		if err != nil {
			return err
		}

		for i := uint32(0); i < items; i++ {
			if err := q.Push(workq.NewItem(workq.DeliverCode{Code: id*100 + i})); err != nil {
				return err
			}
		}
	}

	shared := workq.NewItem(workq.DeliverCode{Code: 9999})
	fmt.Printf("shared item accepted by %d of %d recipients\n", registry.Broadcast(shared, ids...), len(ids))

	buffers := make([]bytes.Buffer, recipients)
	if err := registry.Deliver(context.Background(), func(id uint32) io.Writer {
		return &buffers[id]
	}); err != nil {
		return err
	}

	for id := range buffers {
		codes := make([]uint32, buffers[id].Len()/4)
		if err := binary.Read(&buffers[id], binary.LittleEndian, codes); err != nil {
			return err
		}
		fmt.Printf("recipient %d: %v\n", id, codes)
	}

	return nil
}
