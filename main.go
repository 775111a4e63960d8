package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/nvkalinin/workday-locator/cmd"
	"github.com/nvkalinin/workday-locator/log"
)

type CLI struct {
	Debug bool `short:"d" long:"debug" env:"DEBUG" description:"Выводить отладочные сообщения в лог (в т.ч. каждый посчитанный рабочий день)."`

	Locate cmd.Locate `command:"locate" description:"Найти N-й рабочий день месяца."`
	Count  cmd.Count  `command:"count" description:"Посчитать рабочие дни месяца."`
	Server cmd.Server `command:"server" description:"Запустить сервер (rest + периодическая загрузка исключений)."`
	Sync   cmd.Sync   `command:"sync" description:"Перечитать исключения на сервере за указанные годы."`
	Backup cmd.Backup `command:"backup" description:"Сделать резервную копию хранилища bolt."`
}

func main() {
	cli := &CLI{}
	parser := flags.NewParser(cli, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log.Setup(cli.Debug, os.Stderr)

		if cmd != nil {
			return cmd.Execute(args)
		}
		return nil
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
