/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goshapestudio/internal/backend"
	"goshapestudio/internal/config"
	"goshapestudio/internal/crash"
	"goshapestudio/internal/export"
	applog "goshapestudio/internal/log"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/storage"
	"goshapestudio/internal/telemetry"
	"goshapestudio/internal/ui"
	"goshapestudio/internal/version"
)

func usage() {
	fmt.Println("Go Shape Studio — shape document editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goshapestudio version|-v|--version             Show version")
	fmt.Println("  goshapestudio init <dir> <name>                Create a new document at <dir> with name <name>")
	fmt.Println("  goshapestudio open <dir>                       Open document at <dir> and print summary")
	fmt.Println("  goshapestudio save <dir>                       Save document at <dir> (creates backup)")
	fmt.Println("  goshapestudio snapshot <dir> [<label>]         Save a labeled snapshot of the document")
	fmt.Println("  goshapestudio export <dir> <pdf|svg|png|bundle> [<out>]   Export the document")
	fmt.Println("  goshapestudio login <token>                    Store the backend token in the OS keyring")
	fmt.Println("  goshapestudio sync list [<query>]              List documents on the backend")
	fmt.Println("  goshapestudio sync push <dir> <id>             Push document at <dir> to the backend as <id>")
	fmt.Println("  goshapestudio sync pull <dir> <id>             Pull document <id> from the backend into <dir>")
	fmt.Println("  goshapestudio serve                            Run the sync backend (Postgres)")
	fmt.Println("  goshapestudio ui [<dir>]                       Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var dh *storage.DocumentHandle
	defer func() { crash.Recover(dh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Shape Studio — shape document editor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init document", slog.String("root", abs), slog.String("name", name))
			h, err := storage.InitDocument(abs, storage.NewDocument(name))
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Println("Created document at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			abs, _ := filepath.Abs(dir)
			l.Info("open document", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Printf("Opened document: %s\n", h.Doc.Name)
			fmt.Printf("Shapes: %d\n", shape.CountShapes(h.Doc.Root.Root))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			abs, _ := filepath.Abs(dir)
			l.Info("save document", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved document and created a backup of previous manifest (if any).")
			return
		case "snapshot":
			if len(args) < 3 {
				fmt.Println("snapshot requires <dir>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			label := ""
			if len(args) >= 4 {
				label = args[3]
			}
			abs, _ := filepath.Abs(dir)
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before snapshot failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			id, err := storage.SaveSnapshot(context.Background(), h, label, time.Now())
			if err != nil {
				l.Error("snapshot failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Snapshot %d saved.\n", id)
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format (pdf, svg, png or bundle)")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			format := strings.ToLower(args[3])
			out := ""
			if len(args) >= 5 {
				out = args[4]
			}
			abs, _ := filepath.Abs(dir)
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			if out == "" {
				out = h.Doc.Name + "." + format
				if format == "bundle" {
					out = h.Doc.Name + ".zip"
				}
			}
			l.Info("export document", slog.String("root", abs), slog.String("format", format), slog.String("out", out))
			switch format {
			case "pdf":
				err = export.ExportDocumentPDF(h, out, export.PDFOptions{IncludeGrid: true})
			case "svg":
				err = export.ExportDocumentSVG(h, out, export.SVGOptions{IncludeGrid: true, IncludeHandles: true})
			case "png":
				err = export.ExportDocumentPNG(h, out, export.PNGOptions{})
			case "bundle":
				err = export.ExportBundle(h, out, export.BundleOptions{})
			default:
				fmt.Println("unknown export format:", format)
				usage()
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			telemetry.Event("export", map[string]any{"format": format})
			fmt.Println("Exported to", out)
			return
		case "login":
			if len(args) < 3 {
				fmt.Println("login requires <token>")
				usage()
				os.Exit(2)
			}
			cfg, _, err := config.Load()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := config.Save(cfg, args[2]); err != nil {
				l.Error("store token failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Token stored.")
			return
		case "sync":
			if len(args) < 3 {
				fmt.Println("sync requires a subcommand (list, push or pull)")
				usage()
				os.Exit(2)
			}
			cfg, tok, err := config.Load()
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			client := backend.NewClient(cfg.Backend.BaseURL, tok)
			ctx := context.Background()
			switch args[2] {
			case "list":
				q := ""
				if len(args) >= 4 {
					q = args[3]
				}
				infos, err := client.ListDocuments(ctx, q)
				if err != nil {
					l.Error("sync list failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				for _, info := range infos {
					fmt.Printf("%s\t%s\tv%d\t%s\n", info.StableID, info.Name, info.Version, info.UpdatedAt.Format(time.RFC3339))
				}
				return
			case "push":
				if len(args) < 5 {
					fmt.Println("sync push requires <dir> and <id>")
					usage()
					os.Exit(2)
				}
				abs, _ := filepath.Abs(args[3])
				h, err := storage.Open(abs)
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				dh = h
				raw, err := json.Marshal(h.Doc)
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				ver, err := client.PushDocument(ctx, args[4], h.Doc.Name, raw)
				if err != nil {
					l.Error("sync push failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Printf("Pushed %s as %s (version %d).\n", h.Doc.Name, args[4], ver)
				return
			case "pull":
				if len(args) < 5 {
					fmt.Println("sync pull requires <dir> and <id>")
					usage()
					os.Exit(2)
				}
				env, err := client.FetchDocument(ctx, args[4])
				if err != nil {
					l.Error("sync pull failed", slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				var doc storage.Document
				if err := json.Unmarshal(env.Doc, &doc); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				abs, _ := filepath.Abs(args[3])
				h, err := storage.InitDocument(abs, doc)
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				dh = h
				fmt.Printf("Pulled %s (version %d) into %s.\n", doc.Name, env.Version, abs)
				return
			default:
				fmt.Println("unknown sync subcommand:", args[2])
				usage()
				os.Exit(2)
			}
		case "serve":
			if err := backend.Start(); err != nil {
				l.Error("backend stopped", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
