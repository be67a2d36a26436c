package orders

const TopicOrderPlaced = "pizza.order.placed"

// PartitionKey keeps every event of one order on the same partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
