package cache

import (
	"strconv"

	"github.com/phrazzld/ledger-api/internal/config"
)

// Keys builds namespaced cache keys. Account keys are shared by the list
// ("account:{uid}") and the single account ("account:{uid}_{aid}").
type Keys struct {
	AccountPrefix string
	BudgetPrefix  string
	ReportPrefix  string
}

// NewKeys returns the key layout configured in cfg.
func NewKeys(cfg config.CacheConfig) Keys {
	return Keys{
		AccountPrefix: cfg.AccountPrefix,
		BudgetPrefix:  cfg.BudgetPrefix,
		ReportPrefix:  cfg.ReportPrefix,
	}
}

// DefaultKeys is the layout used when nothing is configured.
var DefaultKeys = Keys{AccountPrefix: "account:", BudgetPrefix: "budget:", ReportPrefix: "report:"}

func (k Keys) AccountList(userID int64) string {
	return k.AccountPrefix + strconv.FormatInt(userID, 10)
}

func (k Keys) Account(userID, accountID int64) string {
	return k.AccountPrefix + strconv.FormatInt(userID, 10) + "_" + strconv.FormatInt(accountID, 10)
}

func (k Keys) BudgetList(userID int64) string {
	return k.BudgetPrefix + strconv.FormatInt(userID, 10)
}

func (k Keys) Report(reportID string) string {
	return k.ReportPrefix + reportID
}
