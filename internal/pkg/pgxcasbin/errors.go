package pgxcasbin

import "errors"

var (
	ErrInvalidFilterType = errors.New("pgxcasbin: unsupported filter type")
	ErrBatchExec         = errors.New("pgxcasbin: batch exec failed")
	ErrBatchClose        = errors.New("pgxcasbin: batch close failed")
	ErrInsertRow         = errors.New("pgxcasbin: insert failed")
	ErrArgsTooLong       = errors.New("pgxcasbin: filter values exceed rule width")
	ErrSelectWhere       = errors.New("pgxcasbin: select failed")
	ErrScanRow           = errors.New("pgxcasbin: row scan failed")
	ErrUpdateRow         = errors.New("pgxcasbin: update failed")
	ErrDeleteRow         = errors.New("pgxcasbin: delete failed")
	ErrEmptyPtype        = errors.New("pgxcasbin: ptype is required")
	ErrDeleteWhere       = errors.New("pgxcasbin: filtered delete failed")
	ErrBeginTx           = errors.New("pgxcasbin: begin transaction failed")
	ErrDeleteAll         = errors.New("pgxcasbin: truncate failed")
	ErrCommitTx          = errors.New("pgxcasbin: commit failed")
	ErrRollbackTx        = errors.New("pgxcasbin: rollback failed")
	ErrRulesMismatch     = errors.New("pgxcasbin: old and new rule counts differ")
	ErrRuleTooLong       = errors.New("pgxcasbin: rule exceeds rule width")
	ErrRuleEmpty         = errors.New("pgxcasbin: rule is empty")
	ErrPingPool          = errors.New("pgxcasbin: pool ping failed")
	ErrUnknownUpdateType = errors.New("pgxcasbin: unknown update type")
	ErrMarshalMessage    = errors.New("pgxcasbin: marshal message failed")
	ErrNotifyMessage     = errors.New("pgxcasbin: notify failed")
	ErrAcquireConn       = errors.New("pgxcasbin: acquire connection failed")
	ErrListenChannel     = errors.New("pgxcasbin: listen failed")
	ErrWaitNotification  = errors.New("pgxcasbin: wait for notification failed")
)
