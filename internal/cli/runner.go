package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"todo-service/internal/frontend"
	"todo-service/internal/model"
)

// Options параметры из корневых флагов
type Options struct {
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer

	// RunTUI подменяется в тестах; по умолчанию frontend.RunTUI
	RunTUI func(api frontend.API, timeout time.Duration) error
}

// Run выполняет подкоманду и возвращает код выхода (0 ok, 1 ошибка, 2 неверное использование)
func Run(api frontend.API, args []string, opt Options) int {
	r := &runner{api: api, opt: opt}
	if r.opt.RunTUI == nil {
		r.opt.RunTUI = frontend.RunTUI
	}
	if r.opt.Timeout <= 0 {
		r.opt.Timeout = 10 * time.Second
	}

	if len(args) == 0 {
		PrintHelp(r.opt.Stdout)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.opt.Stdout)
		return 0

	case "ls":
		return r.list()

	case "add":
		if len(a) == 0 {
			return r.usage("usage: todo add <title...>")
		}
		return r.add(strings.Join(a, " "))

	case "done", "undo":
		if len(a) != 1 {
			return r.usage("usage: todo " + cmd + " <id>")
		}
		id, ok := r.parseID(cmd, a[0])
		if !ok {
			return 2
		}
		return r.setCompleted(id, cmd == "done")

	case "edit":
		if len(a) < 2 {
			return r.usage("usage: todo edit <id> <title...>")
		}
		id, ok := r.parseID(cmd, a[0])
		if !ok {
			return 2
		}
		return r.rename(id, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			return r.usage("usage: todo rm <id>")
		}
		id, ok := r.parseID(cmd, a[0])
		if !ok {
			return 2
		}
		return r.remove(id)

	case "tui":
		if err := r.opt.RunTUI(r.api, r.opt.Timeout); err != nil {
			return r.fail("tui: " + err.Error())
		}
		return 0
	}

	r.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.opt.Stderr)
	PrintHelp(r.opt.Stderr)
	return 2
}

// PrintHelp печатает справку по подкомандам
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - client for the todo service

Usage:
  todo [flags] <subcommand> [args]

Flags:
  -addr string       API base URL (default $TODO_API_URL or http://localhost:3000/api)
  -timeout duration  request timeout (default 10s)

Subcommands:
  ls                     List todos, newest first
  add <title...>         Create a todo
  done <id>              Mark todo as completed
  undo <id>              Mark todo as not completed
  edit <id> <title...>   Change todo title
  rm <id>                Delete todo
  tui                    Interactive list

Examples:
  todo add "Buy milk"
  todo done 2
  todo rm 3
`)
}

type runner struct {
	api frontend.API
	opt Options
}

func (r *runner) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.opt.Timeout)
}

func (r *runner) list() int {
	ctx, cancel := r.ctx()
	defer cancel()

	todos, err := r.api.List(ctx)
	if err != nil {
		return r.fail("ls: " + err.Error())
	}

	state := frontend.NewTodoList()
	state.Replace(todos)
	fmt.Fprintln(r.opt.Stdout, frontend.Render(state))
	return 0
}

func (r *runner) add(title string) int {
	ctx, cancel := r.ctx()
	defer cancel()

	todo, err := r.api.Create(ctx, title)
	if err != nil {
		return r.fail("add: " + err.Error())
	}
	return r.ok(fmt.Sprintf("added #%d %s", todo.ID, todo.Title))
}

func (r *runner) setCompleted(id int64, completed bool) int {
	ctx, cancel := r.ctx()
	defer cancel()

	todo, err := r.api.Update(ctx, id, model.TodoPatch{Completed: &completed})
	if err != nil {
		return r.fail("update: " + err.Error())
	}
	return r.ok(frontend.Line(todo))
}

func (r *runner) rename(id int64, title string) int {
	ctx, cancel := r.ctx()
	defer cancel()

	todo, err := r.api.Update(ctx, id, model.TodoPatch{Title: &title})
	if err != nil {
		return r.fail("edit: " + err.Error())
	}
	return r.ok(frontend.Line(todo))
}

func (r *runner) remove(id int64) int {
	ctx, cancel := r.ctx()
	defer cancel()

	deleted, err := r.api.Delete(ctx, id)
	if err != nil {
		return r.fail("rm: " + err.Error())
	}
	return r.ok(fmt.Sprintf("deleted #%d", deleted))
}

func (r *runner) parseID(cmd, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		r.fail(cmd + ": not a valid id: " + raw)
		return 0, false
	}
	return id, true
}

func (r *runner) ok(msg string) int {
	fmt.Fprintln(r.opt.Stdout, frontend.OK(msg))
	return 0
}

func (r *runner) fail(msg string) int {
	fmt.Fprintln(r.opt.Stderr, frontend.Fail(msg))
	return 1
}

func (r *runner) usage(msg string) int {
	r.fail(msg)
	return 2
}
