package factstore

const schema = `
CREATE TABLE IF NOT EXISTS loads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    generation TEXT NOT NULL UNIQUE,
    loaded_at INTEGER NOT NULL,
    triple_count INTEGER NOT NULL,
    failure_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS triples (
    generation TEXT NOT NULL,
    seq INTEGER NOT NULL,
    subject TEXT NOT NULL,
    relation TEXT NOT NULL,
    object TEXT NOT NULL,
    PRIMARY KEY (generation, seq)
);

CREATE INDEX IF NOT EXISTS idx_triples_forward ON triples(subject, relation);
CREATE INDEX IF NOT EXISTS idx_triples_reverse ON triples(object, relation);

CREATE TABLE IF NOT EXISTS failures (
    generation TEXT NOT NULL,
    source TEXT NOT NULL,
    line INTEGER NOT NULL,
    text TEXT NOT NULL,
    reason TEXT NOT NULL
);
`
