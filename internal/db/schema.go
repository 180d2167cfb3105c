package db

// SchemaSQL defines the account and memory tables. Every statement is
// idempotent so InitSchema can run on each server start.
const SchemaSQL = `
    -- ==========================================================================
    -- ACCOUNT TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS account SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON account TYPE string;
    DEFINE FIELD IF NOT EXISTS email ON account TYPE string;
    DEFINE FIELD IF NOT EXISTS password_hash ON account TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON account TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS account_email ON account FIELDS email UNIQUE;

    -- ==========================================================================
    -- MEMORY TABLE
    -- ==========================================================================
    -- user_id holds the owning account's uuid; ownership is enforced in every
    -- query rather than through a record link.
    DEFINE TABLE IF NOT EXISTS memory SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON memory TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON memory TYPE string;
    DEFINE FIELD IF NOT EXISTS content ON memory TYPE string;
    -- TODO: Use set<string> when Go SDK supports CBOR tag 56 (v3.0 set type)
    DEFINE FIELD IF NOT EXISTS tags ON memory TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS created_at ON memory TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON memory TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS memory_user ON memory FIELDS user_id;
    DEFINE INDEX IF NOT EXISTS memory_user_created ON memory FIELDS user_id, created_at;
`
