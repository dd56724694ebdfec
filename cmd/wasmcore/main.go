// Command wasmcore decodes WebAssembly binary modules and, optionally,
// allocates them into a store. It generalizes the teacher repository's
// flat os.Args-driven main.go into a proper cobra CLI with leveled
// logrus output, per the decoder's own ambient-stack conventions.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"

	"github.com/charlieprice/wasmcore/store"
	"github.com/charlieprice/wasmcore/wasm"
)

var (
	log     = logrus.New()
	asJSON  bool
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wasmcore",
		Short: "Decode and allocate WebAssembly 1.0 binary modules",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print result as JSON")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newDecodeCmd(), newAllocCmd())
	return root
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file.wasm>",
		Short: "Decode a binary module and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, m, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			digest := sha3.Sum256(raw)
			summary := moduleSummary{
				Types:   len(m.Types),
				Funcs:   len(m.Funcs),
				Tables:  len(m.Tables),
				Mems:    len(m.Mems),
				Globals: len(m.Globals),
				Elems:   len(m.Elems),
				Datas:   len(m.Datas),
				Imports: len(m.Imports),
				Exports: len(m.Exports),
				Customs: len(m.Customs),
				SHA3256: fmt.Sprintf("%x", digest),
			}
			return printResult(summary)
		},
	}
}

func newAllocCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alloc <file.wasm>",
		Short: "Decode a binary module and allocate it into a fresh store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			st := store.NewStore()
			inst, err := store.Allocate(st, m, nil)
			if err != nil {
				return fmt.Errorf("allocate: %w", err)
			}
			log.WithFields(logrus.Fields{
				"funcs":   len(inst.FuncAddrs),
				"tables":  len(inst.TableAddrs),
				"mems":    len(inst.MemAddrs),
				"globals": len(inst.GlobalAddrs),
				"exports": len(inst.Exports),
			}).Debug("module allocated")
			return printResult(allocSummary{
				FuncAddrs:   len(inst.FuncAddrs),
				TableAddrs:  len(inst.TableAddrs),
				MemAddrs:    len(inst.MemAddrs),
				GlobalAddrs: len(inst.GlobalAddrs),
				Exports:     exportNames(inst.Exports),
			})
		},
	}
}

func decodeFile(path string) ([]byte, *wasm.Module, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.WithField("file", path).Debug("decoding module")
	m, err := wasm.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return raw, m, nil
}

type moduleSummary struct {
	Types   int    `json:"types"`
	Funcs   int    `json:"funcs"`
	Tables  int    `json:"tables"`
	Mems    int    `json:"mems"`
	Globals int    `json:"globals"`
	Elems   int    `json:"elems"`
	Datas   int    `json:"datas"`
	Imports int    `json:"imports"`
	Exports int    `json:"exports"`
	Customs int    `json:"customs"`
	SHA3256 string `json:"sha3_256"`
}

type allocSummary struct {
	FuncAddrs   int      `json:"func_addrs"`
	TableAddrs  int      `json:"table_addrs"`
	MemAddrs    int      `json:"mem_addrs"`
	GlobalAddrs int      `json:"global_addrs"`
	Exports     []string `json:"exports"`
}

func exportNames(exports []store.ExportInstance) []string {
	names := make([]string, len(exports))
	for i, e := range exports {
		names[i] = e.Name
	}
	return names
}

func printResult(v interface{}) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Printf("%+v\n", v)
	return nil
}
