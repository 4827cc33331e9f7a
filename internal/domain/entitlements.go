package domain

// entitlementCatalog lists every entitlement identifier a customer may
// request on a certificate. Selections are checked against this list at
// the API boundary; unknown identifiers are rejected.
var entitlementCatalog = []string{
	"application-identifier",
	"aps-environment",
	"com.apple.developer.applesignin",
	"com.apple.developer.associated-domains",
	"com.apple.developer.authentication-services.autofill-credential-provider",
	"com.apple.developer.carplay-audio",
	"com.apple.developer.carplay-communication",
	"com.apple.developer.classkit-environment",
	"com.apple.developer.contacts.notes",
	"com.apple.developer.default-data-protection",
	"com.apple.developer.devicecheck.appattest-environment",
	"com.apple.developer.driverkit",
	"com.apple.developer.family-controls",
	"com.apple.developer.fileprovider.testing-mode",
	"com.apple.developer.game-center",
	"com.apple.developer.healthkit",
	"com.apple.developer.healthkit.access",
	"com.apple.developer.healthkit.background-delivery",
	"com.apple.developer.homekit",
	"com.apple.developer.icloud-container-identifiers",
	"com.apple.developer.icloud-services",
	"com.apple.developer.in-app-payments",
	"com.apple.developer.kernel.extended-virtual-addressing",
	"com.apple.developer.kernel.increased-memory-limit",
	"com.apple.developer.networking.HotspotConfiguration",
	"com.apple.developer.networking.multipath",
	"com.apple.developer.networking.networkextension",
	"com.apple.developer.networking.vpn.api",
	"com.apple.developer.networking.wifi-info",
	"com.apple.developer.nfc.readersession.formats",
	"com.apple.developer.pass-type-identifiers",
	"com.apple.developer.push-to-talk",
	"com.apple.developer.siri",
	"com.apple.developer.storekit.external-link.account",
	"com.apple.developer.system-extension.install",
	"com.apple.developer.usernotifications.communication",
	"com.apple.developer.usernotifications.filtering",
	"com.apple.developer.usernotifications.time-sensitive",
	"com.apple.developer.weatherkit",
	"com.apple.security.application-groups",
	"com.apple.security.get-task-allow",
	"inter-app-audio",
	"keychain-access-groups",
}

var entitlementSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(entitlementCatalog))
	for _, id := range entitlementCatalog {
		set[id] = struct{}{}
	}
	return set
}()

// Entitlements returns the static entitlement catalog.
func Entitlements() []string {
	out := make([]string, len(entitlementCatalog))
	copy(out, entitlementCatalog)
	return out
}

// KnownEntitlement reports whether the identifier is part of the catalog.
func KnownEntitlement(id string) bool {
	_, ok := entitlementSet[id]
	return ok
}
