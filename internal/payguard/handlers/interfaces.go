package handlers

// Composed service interfaces for wiring; each handler still depends only on
// the narrow piece it uses.

type OrdersService interface {
	OrderPaidMarker
	OrderFailedMarker
	OrderGetter
	OrdersListingService
}

type WalletService interface {
	PointsGettingService
	PointsAdjustService
}

type AuthService interface {
	RegistrationService
	AuthorizationService
}
