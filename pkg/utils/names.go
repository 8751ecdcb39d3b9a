package utils

import "math/rand"

var animals = []string{
	"Ape", "Alligator", "Ant", "Bat", "Bear", "Bird", "Butterfly", "Cat", "Chameleon", "Chicken",
	"Crab", "Dog", "Dolphin", "Donkey", "Duck", "Eagle", "Elephant", "Falcon", "Fish", "Fox",
	"Frog", "Gecko", "Goat", "Gorilla", "Hamster", "Horse", "Jackal", "Jaguar", "Kangaroo", "Koala",
	"Lemming", "Leopard", "Lion", "Lizard", "Lobster", "Mole", "Mouse", "Octopus", "Otter", "Parrot",
	"Penguin", "Pig", "Piranha", "Rabbit", "Raccoon", "Rat", "Scorpion", "Seal", "Shrimp", "Snail",
	"Snake", "Tiger", "Tortoise", "Walrus", "Weasel", "Wolf", "Wombat", "Zebra",
}

var adjectives = []string{
	"Adorable", "Acrobatic", "Afraid", "Amazing", "Angry", "Artistic", "Athletic", "Attractive",
	"Awesome", "Beautiful", "Blind", "Brave", "Brilliant", "Calm", "Cheerful", "Clever", "Cold",
	"Confused", "Cool", "Crazy", "Creepy", "Criminal", "Cute", "Evil", "Exotic", "Fabulous", "Fake",
	"Funny", "Giant", "Glamorous", "Glorious", "Great", "Hairy", "Happy", "Intelligent", "Lame",
	"Lazy", "Mad", "Monstrous", "Mysterious", "Optimistic", "Polite", "Poor", "Pretty", "Rich",
	"Royal", "Sad", "Serious", "Sleepy", "Small", "Smart", "Spectacular", "Terrific",
}

// PlayerName builds an "AdjectiveAnimal" display name.
func PlayerName(rng *rand.Rand) string {
	return adjectives[rng.Intn(len(adjectives))] + animals[rng.Intn(len(animals))]
}

// RoomName is PlayerName with a space between the two words.
func RoomName(rng *rand.Rand) string {
	return adjectives[rng.Intn(len(adjectives))] + " " + animals[rng.Intn(len(animals))]
}
