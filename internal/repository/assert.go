package repository

import "github.com/iliyamo/restaurant-pos/internal/model"

var (
	_ model.OrderRepository                                 = (*OrderRepo)(nil)
	_ model.OrderItemRepository                             = (*ItemRepo)(nil)
	_ model.ExtensionRepository[model.DineInExtension]      = (*ExtensionRepo[model.DineInExtension])(nil)
	_ model.ExtensionRepository[model.DeliveryExtension]    = (*ExtensionRepo[model.DeliveryExtension])(nil)
	_ model.ExtensionRepository[model.ReservationExtension] = (*ExtensionRepo[model.ReservationExtension])(nil)
	_ model.TakeawayRepository                              = (*TakeawayRepo)(nil)
	_ model.TableRepository                                 = (*TableRepo)(nil)
	_ model.AuditRepository                                 = (*AuditRepo)(nil)
	_ model.CustomerRepository                              = (*CustomerRepo)(nil)
	_ model.MenuRepository                                  = (*MenuRepo)(nil)
	_ model.PaymentRepository                               = (*PaymentRepo)(nil)
	_ model.SettingsRepository                              = (*SettingsRepo)(nil)
)
