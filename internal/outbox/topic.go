package outbox

// Topic is the postgres staging topic events are written to inside the
// booking transaction, before the forwarder moves them to redis.
const Topic = "events_to_forward"
