package dispatch

// User-facing texts. HTML parse mode is on, so none of them may contain markup characters.
const (
	msgGreeting = "🎬 Hi! I help you find movies.\n\n" +
		"Get a random pick or search the catalog, then save the ones you like."
	msgDefaultMenu = "📋 Main menu:\n\n" +
		"/random — random movie\n" +
		"/search — search movies\n" +
		"/help — show this menu"

	msgSessionFailed = "⚠️ Could not establish a session, try again later."
	msgRandomFailed  = "⚠️ Could not get a movie."
	msgSearchPrompt  = "✏️ Enter a movie title to search:"
	msgSearchFailed  = "⚠️ Search failed, try again later."
	msgNothingFound  = "🔍 Nothing found."

	msgInvalidData   = "⚠️ Invalid data."
	msgNoMessage     = "⚠️ This message is no longer available."
	msgDetailsFailed = "⚠️ Could not load the movie."
	msgItemNotFound  = "⚠️ Item not found, please search again."
	msgSaved         = "✅ Saved to your list."
	msgSaveFailed    = "❌ Could not save."
)
