/*
 * amx - Example embedding host
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Command amxrun is a minimal embedding host: it loads a compiled module,
// registers whichever native libraries the config file names, runs main,
// and reports the result. It exists to exercise the embedding surface in
// amx, not as a production Pawn runner.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/pawnvm/amx"
	config "github.com/rcornwell/pawnvm/config/configparser"
	natives "github.com/rcornwell/pawnvm/natives/corelib"
	logger "github.com/rcornwell/pawnvm/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "amx.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Trace every statement boundary")
	optModule := getopt.StringLong("module", 'm', "", "Compiled module to run")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot create log file %s: %v\n", *optLogFile, err)
			os.Exit(1)
		}
		logFile = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	modulePath := *optModule
	config.RegisterDirective("module", config.TypeOption, func(arg string, _ []config.Option) error {
		if modulePath == "" {
			modulePath = arg
		}
		return nil
	})

	if _, err := os.Stat(*optConfig); err == nil {
		if err := config.LoadConfigFile(*optConfig); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	if modulePath == "" {
		Logger.Error("please specify a module to run with -m or a module directive")
		os.Exit(1)
	}

	image, err := os.ReadFile(modulePath)
	if err != nil {
		Logger.Error("reading module", "error", err)
		os.Exit(1)
	}

	inst, err := amx.Load(image)
	if err != nil {
		Logger.Error("loading module", "error", err)
		os.Exit(1)
	}
	defer inst.Cleanup()

	inst.SetLogger(Logger)
	if *optDebug {
		programLevel.Set(slog.LevelDebug)
		inst.SetDebugHook(func(i *amx.Instance) error {
			Logger.Debug("stmt", "pri", i.PRI(), "alt", i.ALT())
			return nil
		})
	}

	for _, lib := range natives.Requested {
		list, _ := natives.Lookup(lib)
		if err := inst.Register(list); err != nil {
			Logger.Error("registering library", "library", lib, "error", err)
			os.Exit(1)
		}
	}

	codeSize, dataSize, stackHeap := inst.MemInfo()
	Logger.Info("module loaded", "code", codeSize, "data", dataSize, "stack+heap", stackHeap)

	ret, err := inst.Exec(amx.ExecMain)
	if err != nil {
		Logger.Error("exec failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("return value: %d\n", ret)
}
