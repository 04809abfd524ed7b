package cartridge

import "strings"

// Keys for built-in system and narrator messages. Cartridges may override any
// of them through Game.SystemMessages. Placeholders use {name}, {target},
// {container}, {location} and {item}.
const (
	MsgEmptyTarget       = "empty_target"
	MsgNotFound          = "not_found"
	MsgGated             = "gated"
	MsgBlocked           = "blocked"
	MsgOutOfReach        = "out_of_reach"
	MsgDataError         = "data_error"
	MsgAIUnavailable     = "ai_unavailable"
	MsgUnknownVerb       = "unknown_verb"
	MsgAlreadyHave       = "already_have"
	MsgNotInInventory    = "not_in_inventory"
	MsgCantTake          = "cant_take"
	MsgTaken             = "taken"
	MsgDropped           = "dropped"
	MsgAlreadyOpen       = "already_open"
	MsgAlreadyClosed     = "already_closed"
	MsgLocked            = "locked"
	MsgCantOpen          = "cant_open"
	MsgCantClose         = "cant_close"
	MsgOpened            = "opened"
	MsgClosed            = "closed"
	MsgAlreadyBroken     = "already_broken"
	MsgCantBreak         = "cant_break_object"
	MsgBreakNoHandler    = "break_no_effect"
	MsgSearchNothing     = "search_nothing"
	MsgSearchFound       = "search_found"
	MsgCantSearch        = "cant_search"
	MsgSmellNothing      = "smell_nothing"
	MsgCantClimb         = "cant_climb"
	MsgClimbNoHandler    = "climb_no_effect"
	MsgCantMove          = "cant_move"
	MsgMoveNoHandler     = "move_no_effect"
	MsgCantUse           = "cant_use"
	MsgUseNoHandler      = "use_no_effect"
	MsgCantRead          = "cant_read"
	MsgNothingSpecial    = "nothing_special"
	MsgCantTalk          = "cant_talk"
	MsgAlreadyTalking    = "already_talking"
	MsgConversationOver  = "conversation_over"
	MsgCantCombine       = "cant_combine"
	MsgCombineSelf       = "combine_self"
	MsgInventoryEmpty    = "inventory_empty"
	MsgInventoryList     = "inventory_list"
	MsgAlreadyThere      = "already_there"
	MsgNoRoute           = "no_route"
	MsgFocusMoved        = "focus_moved"
	MsgLocationMoved     = "location_moved"
	MsgNeedFocus         = "password_need_focus"
	MsgNotInputtable     = "password_not_inputtable"
	MsgAlreadyUnlocked   = "already_unlocked"
	MsgWrongPassword     = "wrong_password"
	MsgUnlocked          = "unlocked"
	MsgPhotoTaken        = "photo_taken"
	MsgNotPhotographable = "not_photographable"
	MsgDeviceRaised      = "device_raised"
	MsgNothingToLeave    = "nothing_to_leave"
	MsgStepBack          = "step_back"
	MsgNoHint            = "no_hint"
	MsgChapterComplete   = "chapter_complete"
	MsgLookFocus         = "look_focus"
	MsgMustOpen          = "must_open"
	MsgNPCSilent         = "npc_silent"
	MsgDeviceLowered     = "device_lowered"
	MsgAlreadyMoved      = "already_moved"
	MsgNothingHere       = "nothing_here"
	MsgYouSee            = "you_see"
)

var defaultMessages = map[string]string{
	MsgEmptyTarget:       "You need to say what you want to {verb}.",
	MsgNotFound:          "You don't see any \"{target}\" here.",
	MsgGated:             "You haven't found anything like that yet.",
	MsgBlocked:           "The {name} is secured to the {container}. You can't get it loose.",
	MsgOutOfReach:        "The {name} is too far away. You'd have to go over to it first.",
	MsgDataError:         "Something about that doesn't add up. You let it go.",
	MsgAIUnavailable:     "The AI is currently unavailable. Try again in a moment.",
	MsgUnknownVerb:       "You're not sure how to do that.",
	MsgAlreadyHave:       "You already have the {name}.",
	MsgNotInInventory:    "You aren't carrying any \"{target}\".",
	MsgCantTake:          "You can't take the {name}.",
	MsgTaken:             "You take the {name}.",
	MsgDropped:           "You set the {name} down.",
	MsgAlreadyOpen:       "The {name} is already open.",
	MsgAlreadyClosed:     "The {name} is already closed.",
	MsgLocked:            "The {name} is locked.",
	MsgCantOpen:          "The {name} doesn't open.",
	MsgCantClose:         "The {name} doesn't close.",
	MsgOpened:            "You open the {name}.",
	MsgClosed:            "You close the {name}.",
	MsgAlreadyBroken:     "The {name} is already broken.",
	MsgCantBreak:         "The {name} isn't something you can break.",
	MsgBreakNoHandler:    "You give the {name} a solid hit. It holds.",
	MsgSearchNothing:     "You search the {name} but find nothing of interest.",
	MsgSearchFound:       "Searching the {name}, you find: {items}.",
	MsgCantSearch:        "There's nothing to search in the {name}.",
	MsgSmellNothing:      "The {name} smells of nothing in particular. Stale smoke, maybe.",
	MsgCantClimb:         "You can't climb the {name}.",
	MsgClimbNoHandler:    "You haul yourself up onto the {name}. Nothing up here.",
	MsgCantMove:          "The {name} won't budge.",
	MsgMoveNoHandler:     "You shift the {name} a few inches. Nothing underneath.",
	MsgCantUse:           "You can't think of a way to use the {name}.",
	MsgUseNoHandler:      "You fiddle with the {name}. Nothing happens.",
	MsgCantRead:          "There's nothing to read on the {name}.",
	MsgNothingSpecial:    "You see nothing special about the {name}.",
	MsgCantTalk:          "The {name} isn't much of a conversationalist.",
	MsgAlreadyTalking:    "You're already talking to {name}.",
	MsgConversationOver:  "You end the conversation with {name}.",
	MsgCantCombine:       "The {name} and the {item} don't go together.",
	MsgCombineSelf:       "You can't combine something with itself.",
	MsgInventoryEmpty:    "Your pockets are empty.",
	MsgInventoryList:     "You're carrying: {items}.",
	MsgAlreadyThere:      "You're already at the {name}.",
	MsgNoRoute:           "You can't get to the {name} from here.",
	MsgFocusMoved:        "You move over to the {name}.",
	MsgLocationMoved:     "You head to {location}.",
	MsgNeedFocus:         "You need to be at something that takes a password first.",
	MsgNotInputtable:     "There's nowhere on the {name} to enter that.",
	MsgAlreadyUnlocked:   "The {name} is already unlocked.",
	MsgWrongPassword:     "Nothing happens. That isn't it.",
	MsgUnlocked:          "Something clicks. The {name} unlocks.",
	MsgPhotoTaken:        "You snap a photo of the {name}.",
	MsgNotPhotographable: "There's nothing worth photographing about the {name}.",
	MsgDeviceRaised:      "You raise the {name}. Point it at something.",
	MsgNothingToLeave:    "You're not in the middle of anything.",
	MsgStepBack:          "You step back from the {name}.",
	MsgNoHint:            "You've done everything this chapter asks of you.",
	MsgChapterComplete:   "Chapter complete.",
	MsgLookFocus:         "You're at the {name}. {description}",
	MsgMustOpen:          "You'd have to open the {name} first.",
	MsgNPCSilent:         "The {name} looks through you and says nothing.",
	MsgDeviceLowered:     "You lower the {name}.",
	MsgAlreadyMoved:      "You've already moved the {name}.",
	MsgNothingHere:       "Nothing else here catches your eye.",
	MsgYouSee:            "You see: {items}.",
}

// Fill replaces {placeholder} tokens in a message template. Values are given
// as alternating placeholder names and values; unknown placeholders are left
// as they are.
func Fill(template string, pairs ...string) string {
	if len(pairs) == 0 {
		return template
	}
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}

// Say looks up a message key and fills its placeholders.
func (g *Game) Say(key string, pairs ...string) string {
	return Fill(g.Message(key), pairs...)
}
