package redis

// Redis key naming conventions for queue data.
// All keys are prefixed with "taskq:" to avoid collisions.

const keyPrefix = "taskq:"

// jobKey returns the Hash key for a job entity: taskq:{queue}:job:{id}
func jobKey(queue, id string) string {
	return keyPrefix + queue + ":job:" + id
}

// stateKey returns the Sorted Set key holding the IDs of every job in a
// given state: taskq:{queue}:{state}
func stateKey(queue, state string) string {
	return keyPrefix + queue + ":" + state
}
