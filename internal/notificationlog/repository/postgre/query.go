package postgres

const appendQuery = `
INSERT INTO notification_logs (id, rule_id, change_event_id, channel, status, error, sent_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
