package store

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS players (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                player_name TEXT NOT NULL UNIQUE
        );`,
	`CREATE TABLE IF NOT EXISTS action (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                action_name TEXT NOT NULL UNIQUE
        );`,
	`CREATE TABLE IF NOT EXISTS event (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                event_name TEXT NOT NULL UNIQUE
        );`,
	`CREATE TABLE IF NOT EXISTS mood (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                mood_name TEXT NOT NULL UNIQUE
        );`,
	`CREATE TABLE IF NOT EXISTS sublocation (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                sublocation_name TEXT NOT NULL UNIQUE
        );`,
	`CREATE TABLE IF NOT EXISTS cricket_data (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                image_url TEXT NOT NULL,
                caption TEXT NOT NULL DEFAULT '',
                description TEXT NOT NULL DEFAULT '',
                player_ids TEXT NOT NULL DEFAULT '[]',
                datefrom TEXT NOT NULL DEFAULT '',
                event_id INTEGER,
                mood_id INTEGER,
                sublocation_id INTEGER,
                action_id INTEGER,
                timeofday TEXT NOT NULL DEFAULT '',
                focus TEXT NOT NULL DEFAULT '',
                shot_type TEXT NOT NULL DEFAULT '',
                apparel TEXT NOT NULL DEFAULT '',
                brands_and_logos TEXT NOT NULL DEFAULT '',
                no_of_faces INTEGER NOT NULL DEFAULT 0,
                FOREIGN KEY(event_id) REFERENCES event(id) ON DELETE SET NULL,
                FOREIGN KEY(mood_id) REFERENCES mood(id) ON DELETE SET NULL,
                FOREIGN KEY(sublocation_id) REFERENCES sublocation(id) ON DELETE SET NULL,
                FOREIGN KEY(action_id) REFERENCES action(id) ON DELETE SET NULL
        );`,
	`CREATE TABLE IF NOT EXISTS documents (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                image_id INTEGER NOT NULL,
                content TEXT NOT NULL DEFAULT '',
                FOREIGN KEY(image_id) REFERENCES cricket_data(id) ON DELETE CASCADE,
                UNIQUE(image_id)
        );`,
	`CREATE TABLE IF NOT EXISTS feedback (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                image_id INTEGER,
                query TEXT NOT NULL,
                helpful INTEGER NOT NULL DEFAULT 0,
                note TEXT NOT NULL DEFAULT '',
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                FOREIGN KEY(image_id) REFERENCES cricket_data(id) ON DELETE SET NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_cricket_data_action ON cricket_data(action_id);`,
	`CREATE INDEX IF NOT EXISTS idx_cricket_data_event ON cricket_data(event_id);`,
	`CREATE INDEX IF NOT EXISTS idx_cricket_data_mood ON cricket_data(mood_id);`,
	`CREATE INDEX IF NOT EXISTS idx_cricket_data_sublocation ON cricket_data(sublocation_id);`,
	`CREATE INDEX IF NOT EXISTS idx_cricket_data_faces ON cricket_data(no_of_faces);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_image ON documents(image_id);`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_image ON feedback(image_id);`,
}
