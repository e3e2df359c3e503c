package service

import (
	"context"
	"fmt"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"
)

// Recover reconciles journal intents that survived a crash. It runs at
// startup, before the engine serves any operation.
//
// An operation commits in a fixed order: intent, accounts (stamped with
// the intent id), transaction legs, intent cleared. A surviving intent
// therefore falls into one of three windows:
//
//   - all its transaction ids are in the log: everything landed, only
//     the final clear was lost;
//   - some leg is missing but an account carries the intent's stamp:
//     balances moved, the log append was lost — the missing legs are
//     rebuilt from the intent and appended;
//   - neither: nothing became visible and the caller never saw success,
//     so the intent is simply dropped.
//
// This keeps "every balance change has a durable log entry" true across
// a crash at any step boundary.
func (s *LedgerService) Recover(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	journal, err := s.store.LoadJournal()
	if err != nil {
		return fmt.Errorf("could not load journal: %w", err)
	}
	if len(journal) == 0 {
		return nil
	}

	accounts, err := s.store.LoadAccounts()
	if err != nil {
		return fmt.Errorf("could not load accounts: %w", err)
	}
	transactions, err := s.store.LoadTransactions()
	if err != nil {
		return fmt.Errorf("could not load transactions: %w", err)
	}

	logged := make(map[string]bool, len(transactions))
	for _, t := range transactions {
		logged[t.ID] = true
	}

	replayed := false
	for _, intent := range journal {
		log := logger.Log.WithField("intent_id", intent.ID).WithField("op", intent.Op)

		var missing []model.Transaction
		for _, leg := range rebuildLegs(intent) {
			if !logged[leg.ID] {
				missing = append(missing, leg)
			}
		}

		switch {
		case len(missing) == 0:
			log.Info("Intent already fully applied, clearing")
		case balancesStamped(accounts, intent.ID):
			log.WithField("legs", len(missing)).Warn("Replaying lost transaction legs for applied balances")
			transactions = append(transactions, missing...)
			replayed = true
		default:
			log.Info("Intent never applied, dropping")
		}
	}

	if replayed {
		if err := s.store.CommitTransactions(transactions); err != nil {
			return fmt.Errorf("could not commit replayed transactions: %w", err)
		}
	}
	if err := s.store.CommitJournal(nil); err != nil {
		return fmt.Errorf("could not clear journal: %w", err)
	}

	logger.Log.WithField("intents", len(journal)).Info("Journal recovery finished")
	return nil
}

// rebuildLegs reconstructs the transaction records an intent was going
// to append, in the same id order the live path uses.
func rebuildLegs(intent model.JournalEntry) []model.Transaction {
	if intent.Op == model.JournalOpDeposit {
		return []model.Transaction{{
			ID:        intent.TxnIDs[0],
			Email:     intent.To,
			Kind:      model.TransactionCredit,
			Amount:    intent.Amount,
			Timestamp: intent.CreatedAt,
		}}
	}
	return []model.Transaction{
		{
			ID:         intent.TxnIDs[0],
			Email:      intent.From,
			Kind:       model.TransactionDebit,
			Amount:     intent.Amount,
			Timestamp:  intent.CreatedAt,
			TransferID: intent.ID,
		},
		{
			ID:         intent.TxnIDs[1],
			Email:      intent.To,
			Kind:       model.TransactionCredit,
			Amount:     intent.Amount,
			Timestamp:  intent.CreatedAt,
			TransferID: intent.ID,
		},
	}
}

func balancesStamped(accounts []model.Account, intentID string) bool {
	for i := range accounts {
		if accounts[i].LastTxnID == intentID {
			return true
		}
	}
	return false
}
