package registration

import (
	"gitlab.com/staffsync/staffsync-backend/internal/application/registration/cmd"
	"gitlab.com/staffsync/staffsync-backend/internal/application/registration/query"
)

type App struct {
	CMD   Command
	Query Query
}

type Command struct {
	SendCode   *cmd.SendCodeHandler
	VerifyCode *cmd.VerifyCodeHandler
	Register   *cmd.RegisterHandler
}

type Query struct {
	CodeTime *query.CodeTimeHandler
}

type Args struct {
	AttemptRepo  AttemptRepo
	Registrar    cmd.Registrar
	MemberGetter cmd.MemberGetter
	Sender       cmd.CodeSender
}

type AttemptRepo interface {
	cmd.AttemptGetter
	cmd.AttemptSaver
	cmd.AttemptDeleter
	cmd.AttemptUpdater
}

func NewApp(args Args) *App {
	return &App{
		CMD: Command{
			SendCode: cmd.NewSendCodeHandler(cmd.SendCodeHandlerArgs{
				AttemptRepo:  args.AttemptRepo,
				MemberGetter: args.MemberGetter,
				Sender:       args.Sender,
			}),
			VerifyCode: cmd.NewVerifyCodeHandler(cmd.VerifyCodeHandlerArgs{
				AttemptRepo: args.AttemptRepo,
			}),
			Register: cmd.NewRegisterHandler(cmd.RegisterHandlerArgs{
				Registrar:    args.Registrar,
				MemberGetter: args.MemberGetter,
			}),
		},
		Query: Query{
			CodeTime: query.NewCodeTimeHandler(args.AttemptRepo),
		},
	}
}
