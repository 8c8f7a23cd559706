package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per convert invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    archive_path TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,
    posts INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 0,
    drafts INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    images_fetched INTEGER NOT NULL DEFAULT 0,
    images_reused INTEGER NOT NULL DEFAULT 0,
    images_failed INTEGER NOT NULL DEFAULT 0,
    slug_collisions INTEGER NOT NULL DEFAULT 0,
    alias_warnings INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Run posts: per-post outcomes within a run
CREATE TABLE IF NOT EXISTS run_posts (
    run_post_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    post_id TEXT,
    slug TEXT,
    title TEXT,
    draft BOOLEAN NOT NULL DEFAULT 0,
    status TEXT NOT NULL,         -- written | failed
    path TEXT,
    error TEXT,
    collided BOOLEAN NOT NULL DEFAULT 0,
    alias_warning TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_posts_run ON run_posts(run_id);
CREATE INDEX IF NOT EXISTS idx_run_posts_status ON run_posts(status);

-- Run images: every image resolution within a run
CREATE TABLE IF NOT EXISTS run_images (
    run_image_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    post_slug TEXT,
    source_url TEXT NOT NULL,
    local_name TEXT,
    status TEXT NOT NULL,         -- fetched | failed
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_images_run ON run_images(run_id);
CREATE INDEX IF NOT EXISTS idx_run_images_status ON run_images(status);
`
