// internal/chat/profanity.go

package chat

// DefaultDenylist is matched as plain substrings, English and Filipino
var DefaultDenylist = []string{
	"fuck",
	"shit",
	"bitch",
	"asshole",
	"bastard",
	"cunt",
	"motherfucker",
	"dickhead",
	"slut",
	"whore",
	"putangina",
	"putang ina",
	"tangina",
	"gago",
	"ulol",
	"tarantado",
	"punyeta",
	"pakyu",
	"kupal",
	"pokpok",
	"bwisit",
	"hinayupak",
}
