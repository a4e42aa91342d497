// Command chatkit is a minimal interactive chat loop over the chatkit
// library. It reads user turns from stdin and streams assistant replies to
// stdout.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/evertlam/chatkit/chat"
	"github.com/evertlam/chatkit/config"
	"github.com/evertlam/chatkit/logger"
)

func main() {
	provider := flag.String("provider", "", "provider id (openrouter, openai, anthropic, ollama)")
	model := flag.String("model", "", "model override")
	system := flag.String("system", "", "system prompt")
	configPath := flag.String("config", "", "path to YAML config file")
	debug := flag.Bool("debug", false, "emit diagnostics events")
	flag.Parse()

	if err := run(*provider, *model, *system, *configPath, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(provider, model, system, configPath string, debug bool) error {
	config.LoadDotEnv()

	log, err := logger.Init()
	if err != nil {
		return err
	}

	fileCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if provider != "" {
		fileCfg.Provider = provider
	}
	if model != "" {
		fileCfg.Model = model
	}
	if system != "" {
		fileCfg.SystemPrompt = system
	}
	if debug {
		fileCfg.Debug = true
	}

	apiKey, err := config.ResolveAPIKey(fileCfg.Provider)
	if err != nil {
		return err
	}

	client, err := chat.New(fileCfg.ChatConfig(apiKey), chat.WithLogger(log))
	if err != nil {
		return err
	}

	fmt.Printf("chatkit: %s (%s) — empty line to quit\n", fileCfg.Provider, effectiveModel(fileCfg.Model))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		client.AddUserMessage(line)
		_, err := client.Stream(context.Background(), func(delta string) {
			fmt.Print(delta)
		})
		fmt.Println()
		if err != nil {
			log.Error().Err(err).Msg("dispatch failed")
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	return scanner.Err()
}

func effectiveModel(model string) string {
	if model == "" {
		return "provider default"
	}
	return model
}
