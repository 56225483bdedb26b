package router

// Fixed user-facing messages. These are deliberately plain strings rather
// than engine output: everything the bot says inside the intake flow must be
// deterministic.

const (
	msgApology = "Sorry, something went wrong. Please try again."

	msgCancelled = "No problem, I've cancelled the ticket. Ask me anything else whenever you're ready."

	msgContinuePrivately = "Happy to help with that. Send me a direct message and we'll sort out the details privately."
)

func msgTicketIntro(firstQuestion string) string {
	return "I'll get this over to our support team. I just need a couple of details first. " +
		"You can type \"cancel\" at any time to stop.\n\n" + firstQuestion
}

func msgTicketFiled(ref string) string {
	return "Thanks, that's everything I need. Your ticket " + ref +
		" is with our support team now. They'll get back to you as soon as possible."
}

func msgDispatchFailed(contact string) string {
	return "Sorry, I couldn't file your ticket just now. Please reach out to " + contact + " directly."
}

func msgFallbackContact(contact string) string {
	return "That's one for our support team. Please reach out to " + contact + " and they'll take care of you."
}
