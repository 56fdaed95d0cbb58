package main

import (
	"flag"
	"fmt"
	"os"

	"todo-service/internal/cli"
	"todo-service/internal/client"
	"todo-service/internal/config"
)

const defaultAddress = "http://localhost:3000/api"

func main() {
	// .env рядом с бинарником может задать TODO_API_URL
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	// Получаем адрес сервера из переменной окружения или используем значение по умолчанию
	address := os.Getenv("TODO_API_URL")
	if address == "" {
		address = defaultAddress
	}

	addr := flag.String("addr", address, "API base URL including prefix")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "request timeout")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	api := client.New(*addr, client.WithTimeout(*timeout))

	code := cli.Run(api, flag.Args(), cli.Options{
		Timeout: *timeout,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
