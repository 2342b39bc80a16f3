package lesson

import (
	"github.com/abhisek/lingua/internal/account"
	lsn "github.com/abhisek/lingua/internal/lesson"
)

// taskLoadedMsg carries a fetched task back to the UI goroutine.
type taskLoadedMsg struct {
	Loaded lsn.TaskLoaded
	Err    error
}

// submittedMsg is sent when an answer has been evaluated and the account
// change, if any, persisted.
type submittedMsg struct {
	Account   *account.Account
	Result    lsn.Result
	Err       error
	CommitErr error
}

// audioReadyMsg reports where a synthesized sample was written.
type audioReadyMsg struct {
	Path string
	Err  error
}
