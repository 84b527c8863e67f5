// Package kernel provides the shared value objects of the food-delivery domain:
//   - UUID: identifier of every aggregate and external reference
//   - Money: prices and totals in minor currency units
//   - DomainEvent: the contract aggregates use to publish state changes
package kernel
