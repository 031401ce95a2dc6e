package json

import "github.com/shubhampopalghat/userbot/internal/domain"

// fileSchema matches the on-disk registry shape:
// {"accounts": {"<name>": {"api_id": ..., "api_hash": "...", "phone": "..."}}}
type fileSchema struct {
	Accounts map[string]accountSchema `json:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Accounts == nil {
		s.Accounts = map[string]accountSchema{}
	}
}

type accountSchema struct {
	APIID   int    `json:"api_id"`
	APIHash string `json:"api_hash"`
	Phone   string `json:"phone"`
}

func toSchema(records map[domain.AccountName]domain.AccountRecord) fileSchema {
	file := fileSchema{Accounts: make(map[string]accountSchema, len(records))}
	for name, record := range records {
		file.Accounts[string(name)] = accountSchema{
			APIID:   record.APIID,
			APIHash: record.APIHash,
			Phone:   record.Phone,
		}
	}

	return file
}

func fromSchema(file fileSchema) map[domain.AccountName]domain.AccountRecord {
	records := make(map[domain.AccountName]domain.AccountRecord, len(file.Accounts))
	for name, entry := range file.Accounts {
		records[domain.AccountName(name)] = domain.AccountRecord{
			Name:    domain.AccountName(name),
			APIID:   entry.APIID,
			APIHash: entry.APIHash,
			Phone:   entry.Phone,
		}
	}

	return records
}
