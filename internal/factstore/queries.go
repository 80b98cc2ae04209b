package factstore

const (
	queryInsertLoad    = `INSERT INTO loads (generation, loaded_at, triple_count, failure_count) VALUES (?, ?, ?, ?)`
	queryLatestLoad    = `SELECT generation, loaded_at, triple_count, failure_count FROM loads ORDER BY id DESC LIMIT 1`
	queryListLoads     = `SELECT generation, loaded_at, triple_count, failure_count FROM loads ORDER BY id DESC LIMIT ?`
	queryDeleteTriples = `DELETE FROM triples`
	queryInsertTriple  = `INSERT INTO triples (generation, seq, subject, relation, object) VALUES (?, ?, ?, ?, ?)`
	queryGetTriples    = `SELECT subject, relation, object FROM triples WHERE generation = ? ORDER BY seq`

	queryDeleteFailures = `DELETE FROM failures`
	queryInsertFailure  = `INSERT INTO failures (generation, source, line, text, reason) VALUES (?, ?, ?, ?, ?)`
	queryGetFailures    = `SELECT source, line, text, reason FROM failures WHERE generation = ? ORDER BY rowid`
)
