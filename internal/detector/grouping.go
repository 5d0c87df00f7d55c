package detector

import (
	"homefinance-recurring-service/internal/models"
)

// Group is a set of transactions from one account whose normalized
// descriptions matched the same cluster key. Transactions are sorted by
// date ascending; the Key is the normalized description of the cluster's
// seed transaction and identifies the pattern across detection runs.
type Group struct {
	AccountID    string
	Key          string
	Transactions []*models.Transaction
}

// cluster pairs a seed key with the transactions assigned to it during the
// first clustering pass, before the per-account split.
type cluster struct {
	key     string
	members []*models.Transaction
}

// GroupTransactions partitions a snapshot into recurring-payment candidate
// groups. Transfers are excluded up front since moving money between own
// accounts is not a payment. Each remaining transaction is compared against
// existing cluster keys in creation order and joins the first key whose
// similarity meets the threshold; otherwise its normalized description
// seeds a new cluster. Clusters are then split by account and groups
// smaller than the configured minimum are dropped.
func GroupTransactions(transactions []*models.Transaction, config *Config) []*Group {
	var clusters []*cluster

	for _, tx := range transactions {
		if tx.IsTransfer() {
			continue
		}

		normalized := NormalizeDescription(tx.Description)

		matched := false
		for _, c := range clusters {
			if Similarity(normalized, c.key) >= config.SimilarityThreshold {
				c.members = append(c.members, tx)
				matched = true
				break
			}
		}

		if !matched {
			clusters = append(clusters, &cluster{
				key:     normalized,
				members: []*models.Transaction{tx},
			})
		}
	}

	var groups []*Group

	for _, c := range clusters {
		byAccount := make(map[string][]*models.Transaction)
		var accountOrder []string

		for _, tx := range c.members {
			if _, seen := byAccount[tx.AccountID]; !seen {
				accountOrder = append(accountOrder, tx.AccountID)
			}
			byAccount[tx.AccountID] = append(byAccount[tx.AccountID], tx)
		}

		for _, accountID := range accountOrder {
			members := byAccount[accountID]
			if len(members) < config.MinOccurrences {
				continue
			}

			models.SortTransactionsByDate(members)

			groups = append(groups, &Group{
				AccountID:    accountID,
				Key:          c.key,
				Transactions: members,
			})
		}
	}

	return groups
}
